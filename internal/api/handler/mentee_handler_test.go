package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"github.com/mentorlink/attendance-portal/internal/core/domain"
	"github.com/mentorlink/attendance-portal/internal/core/ports"
)

type stubStudentService struct {
	listFn   func(ctx context.Context, mentorID string) ([]*domain.Student, error)
	getFn    func(ctx context.Context, mentorID, rollNo string) (*domain.Student, error)
	updateFn func(ctx context.Context, mentorID, rollNo string, update ports.StudentUpdate) error
	statsFn  func(ctx context.Context, mentorID string) (*ports.MentorStats, error)
	lookupFn func(ctx context.Context, identifier string) (*ports.ChildLookup, error)
	importFn func(ctx context.Context, mentorID string, rows []ports.RosterRow) (*ports.ImportResult, error)
}

func (s *stubStudentService) ListOwned(ctx context.Context, mentorID string) ([]*domain.Student, error) {
	return s.listFn(ctx, mentorID)
}

func (s *stubStudentService) GetOwned(ctx context.Context, mentorID, rollNo string) (*domain.Student, error) {
	return s.getFn(ctx, mentorID, rollNo)
}

func (s *stubStudentService) UpdateOwned(ctx context.Context, mentorID, rollNo string, update ports.StudentUpdate) error {
	return s.updateFn(ctx, mentorID, rollNo, update)
}

func (s *stubStudentService) Stats(ctx context.Context, mentorID string) (*ports.MentorStats, error) {
	return s.statsFn(ctx, mentorID)
}

func (s *stubStudentService) LookupByPublicID(ctx context.Context, identifier string) (*ports.ChildLookup, error) {
	return s.lookupFn(ctx, identifier)
}

func (s *stubStudentService) ImportRoster(ctx context.Context, mentorID string, rows []ports.RosterRow) (*ports.ImportResult, error) {
	return s.importFn(ctx, mentorID, rows)
}

type stubAlertService struct {
	triggerFn func(ctx context.Context, mentorID, rollNo string) error
}

func (s *stubAlertService) Trigger(ctx context.Context, mentorID, rollNo string) error {
	return s.triggerFn(ctx, mentorID, rollNo)
}

func asMentor(c echo.Context) {
	c.Set("user_id", "mentor_1")
	c.Set("role", "mentor")
}

func TestMenteeHandler_Stats(t *testing.T) {
	students := &stubStudentService{
		statsFn: func(_ context.Context, mentorID string) (*ports.MentorStats, error) {
			if mentorID != "mentor_1" {
				t.Fatalf("unexpected mentor: %s", mentorID)
			}
			return &ports.MentorStats{Total: 12, Alerts: 3}, nil
		},
	}
	h := NewMenteeHandler(students, &stubAlertService{})

	c, rec := newTestContext(t, http.MethodGet, "/api/mentee/stats", "")
	asMentor(c)

	if err := h.Stats(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var stats ports.MentorStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if stats.Total != 12 || stats.Alerts != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestMenteeHandler_Get_NotFoundPassthrough(t *testing.T) {
	students := &stubStudentService{
		getFn: func(_ context.Context, _, _ string) (*domain.Student, error) {
			return nil, domain.ErrStudentNotFound
		},
	}
	h := NewMenteeHandler(students, &stubAlertService{})

	c, _ := newTestContext(t, http.MethodGet, "/api/mentee/students/R-1", "")
	c.SetParamNames("id")
	c.SetParamValues("R-1")
	asMentor(c)

	if err := h.Get(c); !errors.Is(err, domain.ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestMenteeHandler_Update_PartialFields(t *testing.T) {
	var captured ports.StudentUpdate
	students := &stubStudentService{
		updateFn: func(_ context.Context, mentorID, rollNo string, update ports.StudentUpdate) error {
			if mentorID != "mentor_1" || rollNo != "R-1" {
				t.Fatalf("unexpected target: %s %s", mentorID, rollNo)
			}
			captured = update
			return nil
		},
	}
	h := NewMenteeHandler(students, &stubAlertService{})

	c, rec := newTestContext(t, http.MethodPut, "/api/mentee/students/R-1",
		`{"actual_attendance":55.5,"parent_id":"P-900"}`)
	c.SetParamNames("id")
	c.SetParamValues("R-1")
	asMentor(c)

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.ParentID == nil || *captured.ParentID != "P-900" {
		t.Fatalf("parent_id not forwarded: %+v", captured.ParentID)
	}
	if captured.ActualAttendance == nil || *captured.ActualAttendance != 55.5 {
		t.Fatalf("attendance not forwarded: %+v", captured)
	}
	if captured.FullName != nil {
		t.Fatalf("absent field must stay nil")
	}
}

func TestMenteeHandler_Update_RejectsOutOfRangeAttendance(t *testing.T) {
	students := &stubStudentService{
		updateFn: func(_ context.Context, _, _ string, _ ports.StudentUpdate) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	h := NewMenteeHandler(students, &stubAlertService{})

	c, _ := newTestContext(t, http.MethodPut, "/api/mentee/students/R-1",
		`{"actual_attendance":120}`)
	c.SetParamNames("id")
	c.SetParamValues("R-1")
	asMentor(c)

	err := h.Update(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func buildRosterUpload(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	_ = f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Roll Number", "Full Name", "Actual Attnd%"})
	_ = f.SetSheetRow("Sheet1", "A2", &[]interface{}{"R-1", "Ana", "82"})
	sheet, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write sheet: %v", err)
	}

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", "roster.xlsx")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(sheet.Bytes()); err != nil {
		t.Fatalf("write part: %v", err)
	}
	_ = mw.Close()
	return body, mw.FormDataContentType()
}

func TestMenteeHandler_Upload(t *testing.T) {
	students := &stubStudentService{
		importFn: func(_ context.Context, mentorID string, rows []ports.RosterRow) (*ports.ImportResult, error) {
			if mentorID != "mentor_1" {
				t.Fatalf("unexpected mentor: %s", mentorID)
			}
			if len(rows) != 1 || rows[0].RollNo != "R-1" {
				t.Fatalf("unexpected rows: %+v", rows)
			}
			return &ports.ImportResult{Processed: 1}, nil
		},
	}
	h := NewMenteeHandler(students, &stubAlertService{})

	body, contentType := buildRosterUpload(t)
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/api/mentee/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	asMentor(c)

	if err := h.Upload(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["processed"] != float64(1) {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestMenteeHandler_Upload_NoFile(t *testing.T) {
	h := NewMenteeHandler(&stubStudentService{}, &stubAlertService{})

	c, _ := newTestContext(t, http.MethodPost, "/api/mentee/upload", "")
	asMentor(c)

	err := h.Upload(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestMenteeHandler_SendAlert_Queued(t *testing.T) {
	alerts := &stubAlertService{
		triggerFn: func(_ context.Context, mentorID, rollNo string) error {
			if mentorID != "mentor_1" || rollNo != "R-1" {
				t.Fatalf("unexpected target: %s %s", mentorID, rollNo)
			}
			return nil
		},
	}
	h := NewMenteeHandler(&stubStudentService{}, alerts)

	c, rec := newTestContext(t, http.MethodPost, "/api/mentee/students/R-1/send-alert", "")
	c.SetParamNames("id")
	c.SetParamValues("R-1")
	asMentor(c)

	if err := h.SendAlert(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
}

func TestMenteeHandler_SendAlert_ThrottledPassthrough(t *testing.T) {
	alerts := &stubAlertService{
		triggerFn: func(_ context.Context, _, _ string) error {
			return domain.ErrAlertThrottled
		},
	}
	h := NewMenteeHandler(&stubStudentService{}, alerts)

	c, _ := newTestContext(t, http.MethodPost, "/api/mentee/students/R-1/send-alert", "")
	c.SetParamNames("id")
	c.SetParamValues("R-1")
	asMentor(c)

	if err := h.SendAlert(c); !errors.Is(err, domain.ErrAlertThrottled) {
		t.Fatalf("expected ErrAlertThrottled, got %v", err)
	}
}
