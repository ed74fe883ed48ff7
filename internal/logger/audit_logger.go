// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for model exposure and exports.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogRolloutAssignment records which model variant an identifier was exposed to.
func (al *AuditLogger) LogRolloutAssignment(identifier string, percentage int, variant, source string) {
	al.WithFields(logrus.Fields{
		"identifier": identifier,
		"percentage": percentage,
		"variant":    variant,
		"source":     source,
	}).Info("Model variant assigned")
}

// LogExport records an export of aggregation results.
func (al *AuditLogger) LogExport(runID, path, format string, edges int) {
	al.WithFields(logrus.Fields{
		"run_id": runID,
		"path":   path,
		"format": format,
		"edges":  edges,
	}).Info("Aggregation results exported")
}
