package tailor_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/bootstrap"
	"resume-tailor/internal/document"
	"resume-tailor/internal/document/write"
	"resume-tailor/internal/optimizer"
	"resume-tailor/internal/shared/config"
)

type stubOptimizer struct {
	calls  atomic.Int64
	result *optimizer.Result
	err    error
}

func (s *stubOptimizer) Optimize(ctx context.Context, input optimizer.Input) (*optimizer.Result, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func buildTestApp(t *testing.T, client optimizer.Client) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		Env:             "dev",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		LLMProvider:     "none",
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	if client != nil {
		app.TailorService.Optimizer = client
	}
	return app
}

func sampleDocx(t *testing.T) []byte {
	t.Helper()
	doc := &document.Document{
		SourceFormat: document.FormatDOCX,
		Paragraphs: []document.Paragraph{
			{Index: 0, Runs: []document.Run{{Text: "Jane Doe", Bold: true}}},
			{Index: 1, Runs: []document.Run{{Text: "Senior Software Engineer with Go and Kubernetes experience"}}},
			{Index: 2, Runs: []document.Run{{Text: "• Built data pipelines processing millions of events daily"}}},
			{Index: 3, Runs: []document.Run{{Text: "• Maintained PostgreSQL clusters for analytics workloads"}}},
		},
	}
	data, err := write.Synthesize(doc)
	if err != nil {
		t.Fatalf("synthesize fixture: %v", err)
	}
	return data
}

func uploadRequest(t *testing.T, fileName string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fileWriter, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write(data); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/resume/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	addGuestHeader(req)
	return req
}

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", "test-guest")
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

const longJobDescription = "We are hiring a backend engineer with Kubernetes, Terraform, and Go experience to build streaming data platforms at scale."

func TestUploadAnalyzeOptimizeDownloadCleanup(t *testing.T) {
	stub := &stubOptimizer{
		result: &optimizer.Result{
			Changes: []optimizer.Change{{
				Find:    "Built data pipelines processing millions of events daily",
				Replace: "Built streaming data pipelines processing millions of events daily",
				Reason:  "aligns with the streaming platform focus",
			}},
			KeyInsights: []string{"emphasize streaming experience"},
		},
	}
	app := buildTestApp(t, stub)
	router := app.Router

	// Upload.
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, uploadRequest(t, "resume.docx", sampleDocx(t)))
	if resp.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var uploaded struct {
		SessionID string `json:"sessionId"`
		State     string `json:"state"`
		Resume    struct {
			ID        string `json:"id"`
			IsDefault bool   `json:"isDefault"`
		} `json:"resume"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if uploaded.SessionID == "" {
		t.Fatalf("expected session id")
	}
	if uploaded.State != "uploaded" {
		t.Fatalf("expected uploaded state, got %s", uploaded.State)
	}
	if !uploaded.Resume.IsDefault {
		t.Fatalf("expected first record to be default")
	}

	// Analyze keywords.
	respAnalyze := doJSON(t, router, http.MethodPost, "/resume/analyze-keywords", gin.H{
		"sessionId":      uploaded.SessionID,
		"jobDescription": longJobDescription,
	})
	if respAnalyze.Code != http.StatusOK {
		t.Fatalf("analyze: expected 200, got %d: %s", respAnalyze.Code, respAnalyze.Body.String())
	}
	var analysis struct {
		Found      []string `json:"foundKeywords"`
		Missing    []string `json:"missingKeywords"`
		MatchScore int      `json:"matchScore"`
	}
	if err := json.NewDecoder(respAnalyze.Body).Decode(&analysis); err != nil {
		t.Fatalf("decode analyze response: %v", err)
	}
	if analysis.MatchScore < 0 || analysis.MatchScore > 100 {
		t.Fatalf("match score out of range: %d", analysis.MatchScore)
	}
	if !contains(analysis.Found, "kubernetes") {
		t.Fatalf("expected kubernetes in found keywords, got %v", analysis.Found)
	}
	if !contains(analysis.Missing, "terraform") {
		t.Fatalf("expected terraform in missing keywords, got %v", analysis.Missing)
	}
	for _, kw := range analysis.Found {
		if contains(analysis.Missing, kw) {
			t.Fatalf("keyword %q in both found and missing", kw)
		}
	}

	// Optimize.
	respOptimize := doJSON(t, router, http.MethodPost, "/resume/optimize", gin.H{
		"sessionId":      uploaded.SessionID,
		"jobDescription": longJobDescription,
	})
	if respOptimize.Code != http.StatusOK {
		t.Fatalf("optimize: expected 200, got %d: %s", respOptimize.Code, respOptimize.Body.String())
	}
	var optimized struct {
		State            string   `json:"state"`
		AppliedCount     int      `json:"appliedCount"`
		KeyInsights      []string `json:"keyInsights"`
		OptimizedContent string   `json:"optimizedContent"`
	}
	if err := json.NewDecoder(respOptimize.Body).Decode(&optimized); err != nil {
		t.Fatalf("decode optimize response: %v", err)
	}
	if optimized.State != "optimized" {
		t.Fatalf("expected optimized state, got %s", optimized.State)
	}
	if optimized.AppliedCount != 1 {
		t.Fatalf("expected 1 applied edit, got %d", optimized.AppliedCount)
	}
	if !strings.Contains(optimized.OptimizedContent, "streaming data pipelines") {
		t.Fatalf("expected applied edit in optimized content")
	}
	if stub.calls.Load() != 1 {
		t.Fatalf("expected 1 provider call, got %d", stub.calls.Load())
	}

	// Download.
	reqDownload := httptest.NewRequest(http.MethodGet, "/resume/download/"+uploaded.SessionID, nil)
	addGuestHeader(reqDownload)
	respDownload := httptest.NewRecorder()
	router.ServeHTTP(respDownload, reqDownload)
	if respDownload.Code != http.StatusOK {
		t.Fatalf("download: expected 200, got %d: %s", respDownload.Code, respDownload.Body.String())
	}
	disposition := respDownload.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "resume_optimized.docx") {
		t.Fatalf("unexpected disposition %q", disposition)
	}
	if !bytes.HasPrefix(respDownload.Body.Bytes(), []byte("PK")) {
		t.Fatalf("expected a DOCX archive in the response body")
	}

	// Verify, clean up, verify again.
	reqVerify := httptest.NewRequest(http.MethodGet, "/resume/verify/"+uploaded.SessionID, nil)
	addGuestHeader(reqVerify)
	respVerify := httptest.NewRecorder()
	router.ServeHTTP(respVerify, reqVerify)
	if respVerify.Code != http.StatusOK || !strings.Contains(respVerify.Body.String(), "true") {
		t.Fatalf("expected valid session, got %d: %s", respVerify.Code, respVerify.Body.String())
	}

	reqCleanup := httptest.NewRequest(http.MethodDelete, "/resume/cleanup/"+uploaded.SessionID, nil)
	addGuestHeader(reqCleanup)
	respCleanup := httptest.NewRecorder()
	router.ServeHTTP(respCleanup, reqCleanup)
	if respCleanup.Code != http.StatusOK {
		t.Fatalf("cleanup: expected 200, got %d: %s", respCleanup.Code, respCleanup.Body.String())
	}

	respVerify2 := httptest.NewRecorder()
	reqVerify2 := httptest.NewRequest(http.MethodGet, "/resume/verify/"+uploaded.SessionID, nil)
	addGuestHeader(reqVerify2)
	router.ServeHTTP(respVerify2, reqVerify2)
	if !strings.Contains(respVerify2.Body.String(), "false") {
		t.Fatalf("expected invalid session after cleanup, got %s", respVerify2.Body.String())
	}
}

func TestUploadRejectsUnsupportedFormatWithoutRecord(t *testing.T) {
	app := buildTestApp(t, nil)
	router := app.Router

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, uploadRequest(t, "resume.txt", []byte("plain text resume")))
	if resp.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "unsupported_format") {
		t.Fatalf("expected unsupported_format code, got %s", resp.Body.String())
	}

	// The rejected upload must leave no record behind.
	reqList := httptest.NewRequest(http.MethodGet, "/resume/api/resumes", nil)
	addGuestHeader(reqList)
	respList := httptest.NewRecorder()
	router.ServeHTTP(respList, reqList)
	if respList.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", respList.Code)
	}
	var listed struct {
		Resumes []json.RawMessage `json:"resumes"`
	}
	if err := json.NewDecoder(respList.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listed.Resumes) != 0 {
		t.Fatalf("expected no records, got %d", len(listed.Resumes))
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		Env:             "dev",
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		LLMProvider:     "none",
		MaxUploadBytes:  128,
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, uploadRequest(t, "resume.docx", sampleDocx(t)))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized upload, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "validation_error") {
		t.Fatalf("expected validation_error code, got %s", resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "file is too large") {
		t.Fatalf("expected a size message, got %s", resp.Body.String())
	}
}

func TestOptimizeShortJobDescriptionSkipsProvider(t *testing.T) {
	stub := &stubOptimizer{result: &optimizer.Result{}}
	app := buildTestApp(t, stub)
	router := app.Router

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, uploadRequest(t, "resume.docx", sampleDocx(t)))
	if resp.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d", resp.Code)
	}
	var uploaded struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}

	respOptimize := doJSON(t, router, http.MethodPost, "/resume/optimize", gin.H{
		"sessionId":      uploaded.SessionID,
		"jobDescription": "too short",
	})
	if respOptimize.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", respOptimize.Code, respOptimize.Body.String())
	}
	if !strings.Contains(respOptimize.Body.String(), "validation_error") {
		t.Fatalf("expected validation_error code, got %s", respOptimize.Body.String())
	}
	if stub.calls.Load() != 0 {
		t.Fatalf("expected no provider calls, got %d", stub.calls.Load())
	}
}

func TestOptimizerUnavailableMapsToServiceError(t *testing.T) {
	stub := &stubOptimizer{err: optimizer.ErrUnavailable}
	app := buildTestApp(t, stub)
	router := app.Router

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, uploadRequest(t, "resume.docx", sampleDocx(t)))
	var uploaded struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}

	respOptimize := doJSON(t, router, http.MethodPost, "/resume/optimize", gin.H{
		"sessionId":      uploaded.SessionID,
		"jobDescription": longJobDescription,
	})
	if respOptimize.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", respOptimize.Code, respOptimize.Body.String())
	}
	if !strings.Contains(respOptimize.Body.String(), "optimizer_unavailable") {
		t.Fatalf("expected optimizer_unavailable code, got %s", respOptimize.Body.String())
	}
}

func TestOptimizeTwiceConflictsWithoutProviderCall(t *testing.T) {
	stub := &stubOptimizer{
		result: &optimizer.Result{
			Changes: []optimizer.Change{{
				Find:    "Built data pipelines processing millions of events daily",
				Replace: "Built streaming data pipelines processing millions of events daily",
			}},
		},
	}
	app := buildTestApp(t, stub)
	router := app.Router

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, uploadRequest(t, "resume.docx", sampleDocx(t)))
	if resp.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d", resp.Code)
	}
	var uploaded struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}

	respOptimize := doJSON(t, router, http.MethodPost, "/resume/optimize", gin.H{
		"sessionId":      uploaded.SessionID,
		"jobDescription": longJobDescription,
	})
	if respOptimize.Code != http.StatusOK {
		t.Fatalf("optimize: expected 200, got %d: %s", respOptimize.Code, respOptimize.Body.String())
	}

	respAgain := doJSON(t, router, http.MethodPost, "/resume/optimize", gin.H{
		"sessionId":      uploaded.SessionID,
		"jobDescription": longJobDescription,
	})
	if respAgain.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a second optimize, got %d: %s", respAgain.Code, respAgain.Body.String())
	}
	if stub.calls.Load() != 1 {
		t.Fatalf("second optimize must not reach the provider, got %d calls", stub.calls.Load())
	}
}

func TestDownloadAfterRecordDeletedIsNotFound(t *testing.T) {
	stub := &stubOptimizer{
		result: &optimizer.Result{
			Changes: []optimizer.Change{{
				Find:    "Built data pipelines processing millions of events daily",
				Replace: "Built resilient data pipelines processing millions of events daily",
			}},
		},
	}
	app := buildTestApp(t, stub)
	router := app.Router

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, uploadRequest(t, "resume.docx", sampleDocx(t)))
	var uploaded struct {
		SessionID string `json:"sessionId"`
		Resume    struct {
			ID string `json:"id"`
		} `json:"resume"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}

	respOptimize := doJSON(t, router, http.MethodPost, "/resume/optimize", gin.H{
		"sessionId":      uploaded.SessionID,
		"jobDescription": longJobDescription,
	})
	if respOptimize.Code != http.StatusOK {
		t.Fatalf("optimize: expected 200, got %d: %s", respOptimize.Code, respOptimize.Body.String())
	}

	respDelete := doJSON(t, router, http.MethodDelete, "/resume/api/resumes/"+uploaded.Resume.ID, nil)
	if respDelete.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d: %s", respDelete.Code, respDelete.Body.String())
	}

	reqDownload := httptest.NewRequest(http.MethodGet, "/resume/download/"+uploaded.SessionID, nil)
	addGuestHeader(reqDownload)
	respDownload := httptest.NewRecorder()
	router.ServeHTTP(respDownload, reqDownload)
	if respDownload.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after record deletion, got %d: %s", respDownload.Code, respDownload.Body.String())
	}
}

func TestResumeRecordLifecycle(t *testing.T) {
	app := buildTestApp(t, nil)
	router := app.Router

	upload := func(name string) string {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, uploadRequest(t, name, sampleDocx(t)))
		if resp.Code != http.StatusCreated {
			t.Fatalf("upload %s: expected 201, got %d: %s", name, resp.Code, resp.Body.String())
		}
		var uploaded struct {
			Resume struct {
				ID string `json:"id"`
			} `json:"resume"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
			t.Fatalf("decode upload response: %v", err)
		}
		return uploaded.Resume.ID
	}

	firstID := upload("first.docx")
	secondID := upload("second.docx")

	// Make the second record default, then rename it.
	respDefault := doJSON(t, router, http.MethodPost, "/resume/api/resumes/"+secondID+"/default", nil)
	if respDefault.Code != http.StatusOK {
		t.Fatalf("set default: expected 200, got %d: %s", respDefault.Code, respDefault.Body.String())
	}
	respRename := doJSON(t, router, http.MethodPut, "/resume/api/resumes/"+secondID, gin.H{"name": "Platform Resume"})
	if respRename.Code != http.StatusOK {
		t.Fatalf("rename: expected 200, got %d: %s", respRename.Code, respRename.Body.String())
	}

	reqList := httptest.NewRequest(http.MethodGet, "/resume/api/resumes", nil)
	addGuestHeader(reqList)
	respList := httptest.NewRecorder()
	router.ServeHTTP(respList, reqList)
	var listed struct {
		Resumes []struct {
			ID        string `json:"id"`
			Name      string `json:"name"`
			IsDefault bool   `json:"isDefault"`
		} `json:"resumes"`
	}
	if err := json.NewDecoder(respList.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listed.Resumes) != 2 {
		t.Fatalf("expected 2 records, got %d", len(listed.Resumes))
	}
	if listed.Resumes[0].ID != secondID || !listed.Resumes[0].IsDefault {
		t.Fatalf("expected renamed default first, got %+v", listed.Resumes[0])
	}
	if listed.Resumes[0].Name != "Platform Resume" {
		t.Fatalf("expected renamed record, got %q", listed.Resumes[0].Name)
	}

	// Deleting the default promotes the remaining record.
	respDelete := doJSON(t, router, http.MethodDelete, "/resume/api/resumes/"+secondID, nil)
	if respDelete.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d: %s", respDelete.Code, respDelete.Body.String())
	}

	reqDefault := httptest.NewRequest(http.MethodGet, "/resume/api/default-resume", nil)
	addGuestHeader(reqDefault)
	respGetDefault := httptest.NewRecorder()
	router.ServeHTTP(respGetDefault, reqDefault)
	if respGetDefault.Code != http.StatusOK {
		t.Fatalf("default-resume: expected 200, got %d: %s", respGetDefault.Code, respGetDefault.Body.String())
	}
	var defaulted struct {
		SessionID string `json:"sessionId"`
		Resume    struct {
			ID string `json:"id"`
		} `json:"resume"`
	}
	if err := json.NewDecoder(respGetDefault.Body).Decode(&defaulted); err != nil {
		t.Fatalf("decode default response: %v", err)
	}
	if defaulted.Resume.ID != firstID {
		t.Fatalf("expected %s promoted to default, got %s", firstID, defaulted.Resume.ID)
	}
	if defaulted.SessionID == "" {
		t.Fatalf("expected a fresh session for the default record")
	}

	// Selecting a record opens another session.
	respSelect := doJSON(t, router, http.MethodPost, "/resume/api/resumes/"+firstID+"/select", nil)
	if respSelect.Code != http.StatusCreated {
		t.Fatalf("select: expected 201, got %d: %s", respSelect.Code, respSelect.Body.String())
	}
	var selected struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(respSelect.Body).Decode(&selected); err != nil {
		t.Fatalf("decode select response: %v", err)
	}
	if selected.SessionID == "" || selected.SessionID == defaulted.SessionID {
		t.Fatalf("expected a distinct session per select")
	}
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}
