package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Raj051299/cms-mobile-app/internal/cms/export"
	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

// reportRequestJSON accepts plain dates as well as RFC 3339 timestamps.
type reportRequestJSON struct {
	MemberIDs  []string `json:"member_ids,omitempty"`
	Start      string   `json:"start"`
	End        string   `json:"end"`
	HourlyRate float64  `json:"hourly_rate"`
}

// readReportRequest decodes a JSON or protobuf (structpb.Struct) body.
// Plain dates are calendar days in loc.
func readReportRequest(w http.ResponseWriter, r *http.Request, loc *time.Location) (types.ReportRequest, bool) {
	if isProtobuf(r) {
		var msg structpb.Struct
		if err := readProto(r, &msg); err != nil {
			writeError(w, http.StatusBadRequest, "bad_proto", "invalid protobuf body")
			return types.ReportRequest{}, false
		}
		req, err := export.ReportRequestFromProto(&msg, loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
			return types.ReportRequest{}, false
		}
		return req, true
	}

	var body reportRequestJSON
	if !decodeJSON(w, r, &body) {
		return types.ReportRequest{}, false
	}
	start, err := export.ParseDate(body.Start, loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "start must be YYYY-MM-DD or RFC 3339")
		return types.ReportRequest{}, false
	}
	end, err := export.ParseDate(body.End, loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "end must be YYYY-MM-DD or RFC 3339")
		return types.ReportRequest{}, false
	}
	return types.ReportRequest{
		MemberIDs:  body.MemberIDs,
		Start:      start,
		End:        end,
		HourlyRate: body.HourlyRate,
	}, true
}

// handleGenerateReport answers in the format named by Accept: an xlsx
// workbook, a protobuf Struct, or JSON by default.
func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	req, ok := readReportRequest(w, r, s.reports.Location())
	if !ok {
		return
	}

	rep, err := s.reports.GenerateReport(r.Context(), sessionFrom(r.Context()), req)
	if err != nil {
		s.writeServiceError(w, "generate report", err)
		return
	}

	switch {
	case accepts(r, export.XLSXContentType):
		var buf bytes.Buffer
		if err := export.WriteXLSX(&buf, rep); err != nil {
			s.writeServiceError(w, "generate report", err)
			return
		}
		w.Header().Set("Content-Type", export.XLSXContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="report_%s_%s.xlsx"`,
			rep.From.Format(types.DateLayout), rep.To.Format(types.DateLayout)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	case accepts(r, protobufContentType):
		msg, err := export.ReportToProto(rep)
		if err != nil {
			s.writeServiceError(w, "generate report", err)
			return
		}
		writeProto(w, http.StatusOK, msg)
	default:
		writeJSON(w, http.StatusOK, rep)
	}
}
