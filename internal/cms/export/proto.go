package export

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

// ReportToProto encodes rep as a structpb.Struct using the same field names
// and rounding as the JSON API.
func ReportToProto(rep types.Report) (*structpb.Struct, error) {
	lines := make([]any, len(rep.Lines))
	for i, l := range rep.Lines {
		lines[i] = map[string]any{
			"member_id":   l.MemberID,
			"member":      l.MemberName,
			"total_hours": types.Round2(l.TotalHours),
			"total_pay":   types.Round2(l.TotalPay),
			"from":        l.From.Format(types.DateLayout),
			"to":          l.To.Format(types.DateLayout),
		}
	}
	s, err := structpb.NewStruct(map[string]any{
		"from":         rep.From.Format(types.DateLayout),
		"to":           rep.To.Format(types.DateLayout),
		"hourly_rate":  rep.HourlyRate,
		"generated_at": rep.GeneratedAt.UTC().Format(time.RFC3339Nano),
		"lines":        lines,
	})
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return s, nil
}

// AttendanceToProto encodes one full attendance snapshot for an event.
func AttendanceToProto(eventID string, recs []types.AttendanceRecord) (*structpb.Struct, error) {
	rows := make([]any, len(recs))
	for i, r := range recs {
		row := map[string]any{
			"event_id":  r.EventID,
			"member_id": r.MemberID,
			"name":      r.Name,
			"action":    string(types.NextAction(types.StateOf(&r))),
			"hours":     types.Round2(r.Hours()),
		}
		putTime(row, "invited_at", r.InvitedAt)
		putTime(row, "clock_in", r.ClockIn)
		putTime(row, "clock_out", r.ClockOut)
		rows[i] = row
	}
	s, err := structpb.NewStruct(map[string]any{
		"event_id": eventID,
		"records":  rows,
	})
	if err != nil {
		return nil, fmt.Errorf("encode attendance: %w", err)
	}
	return s, nil
}

// ReportRequestFromProto decodes a report request. start and end are
// YYYY-MM-DD dates, taken as calendar days in loc, or RFC 3339 timestamps.
func ReportRequestFromProto(s *structpb.Struct, loc *time.Location) (types.ReportRequest, error) {
	f := s.GetFields()
	var req types.ReportRequest

	if ids := f["member_ids"].GetListValue(); ids != nil {
		for _, v := range ids.GetValues() {
			req.MemberIDs = append(req.MemberIDs, v.GetStringValue())
		}
	}

	var err error
	if req.Start, err = ParseDate(f["start"].GetStringValue(), loc); err != nil {
		return types.ReportRequest{}, fmt.Errorf("start: %w", err)
	}
	if req.End, err = ParseDate(f["end"].GetStringValue(), loc); err != nil {
		return types.ReportRequest{}, fmt.Errorf("end: %w", err)
	}
	req.HourlyRate = f["hourly_rate"].GetNumberValue()
	return req, nil
}

// ParseDate accepts YYYY-MM-DD, read as midnight in loc (UTC when nil), or
// an RFC 3339 instant.
func ParseDate(v string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(types.DateLayout, v, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}

func putTime(m map[string]any, key string, t *time.Time) {
	if t != nil {
		m[key] = t.UTC().Format(time.RFC3339Nano)
	}
}
