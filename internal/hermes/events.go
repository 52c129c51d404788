package hermes

import (
	"time"

	"github.com/MikeSquared-Agency/wrapped/internal/analytics"
)

const (
	// SubjectExportStored announces an export uploaded to object storage.
	SubjectExportStored = "wrapped.export.stored"
	// SubjectReportGenerated carries the digest of a finished report.
	SubjectReportGenerated = "wrapped.report.generated"
	// SubjectReportFailed reports an export that could not be processed.
	SubjectReportFailed = "wrapped.report.failed"
	// SubjectRegistered is published once at startup.
	SubjectRegistered = "wrapped.agent.registered"

	// QueueProcessors is the queue group shared by report processors.
	QueueProcessors = "wrapped-processors"
)

// Event is a payload that knows its subject.
type Event interface {
	Subject() string
}

// ExportStored is consumed by the processor.
type ExportStored struct {
	ExportID  string `json:"export_id"`
	ObjectKey string `json:"object_key"`
	Filename  string `json:"filename"`
	Timezone  string `json:"timezone,omitempty"`
	Year      int    `json:"year,omitempty"`
}

func (ExportStored) Subject() string { return SubjectExportStored }

type ReportGenerated struct {
	ReportID    string               `json:"report_id"`
	ExportID    string               `json:"export_id"`
	Archetype   string               `json:"archetype"`
	Emoji       string               `json:"emoji"`
	Totals      analytics.Totals     `json:"totals"`
	Highlights  analytics.Highlights `json:"highlights"`
	Flair       map[string]string    `json:"flair"`
	GeneratedAt time.Time            `json:"generated_at"`
}

func (ReportGenerated) Subject() string { return SubjectReportGenerated }

type ReportFailed struct {
	ExportID string    `json:"export_id"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
}

func (ReportFailed) Subject() string { return SubjectReportFailed }

type Registered struct {
	Timestamp string `json:"timestamp"`
	Port      int    `json:"port"`
	Tokenizer string `json:"tokenizer"`
}

func (Registered) Subject() string { return SubjectRegistered }
