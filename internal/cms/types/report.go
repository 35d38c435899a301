package types

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// DateLayout is how report range boundaries are rendered.
const DateLayout = "2006-01-02"

// Export column names, in output order.
const (
	ColumnMember     = "Member"
	ColumnTotalHours = "TotalHours"
	ColumnTotalPay   = "TotalPay"
	ColumnFrom       = "From"
	ColumnTo         = "To"
)

var ReportColumns = []string{ColumnMember, ColumnTotalHours, ColumnTotalPay, ColumnFrom, ColumnTo}

type ReportRequest struct {
	// MemberIDs limits the report; empty means every member on the roster.
	MemberIDs  []string  `json:"member_ids,omitempty"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	HourlyRate float64   `json:"hourly_rate"`
}

// ReportLine carries unrounded totals; rounding is applied by the output
// methods only.
type ReportLine struct {
	MemberID   string
	MemberName string
	TotalHours float64
	TotalPay   float64
	From       time.Time
	To         time.Time
}

type Column struct {
	Name  string
	Value any
}

// Columns renders the line for export in ReportColumns order.
func (l ReportLine) Columns() []Column {
	return []Column{
		{Name: ColumnMember, Value: l.MemberName},
		{Name: ColumnTotalHours, Value: Round2(l.TotalHours)},
		{Name: ColumnTotalPay, Value: Round2(l.TotalPay)},
		{Name: ColumnFrom, Value: l.From.Format(DateLayout)},
		{Name: ColumnTo, Value: l.To.Format(DateLayout)},
	}
}

func (l ReportLine) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		MemberID   string  `json:"member_id"`
		MemberName string  `json:"member"`
		TotalHours float64 `json:"total_hours"`
		TotalPay   float64 `json:"total_pay"`
		From       string  `json:"from"`
		To         string  `json:"to"`
	}{
		MemberID:   l.MemberID,
		MemberName: l.MemberName,
		TotalHours: Round2(l.TotalHours),
		TotalPay:   Round2(l.TotalPay),
		From:       l.From.Format(DateLayout),
		To:         l.To.Format(DateLayout),
	})
}

type Report struct {
	From        time.Time    `json:"from"`
	To          time.Time    `json:"to"`
	HourlyRate  float64      `json:"hourly_rate"`
	GeneratedAt time.Time    `json:"generated_at"`
	Lines       []ReportLine `json:"lines"`
}

// Round2 rounds half away from zero to two decimal places. The scaled value
// is trimmed to 15 significant digits first so 1.005 rounds to 1.01 rather
// than to the float64 just below it.
func Round2(v float64) float64 {
	scaled, err := strconv.ParseFloat(strconv.FormatFloat(v*100, 'g', 15, 64), 64)
	if err != nil {
		scaled = v * 100
	}
	return math.Round(scaled) / 100
}
