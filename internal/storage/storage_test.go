package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportKey(t *testing.T) {
	assert.Equal(t, "reports/monthly-process-summary.pdf", ReportKey("reports", "monthly-process-summary"))
	assert.Equal(t, "x.pdf", ReportKey("", "x"))
}
