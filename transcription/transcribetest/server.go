// Package transcribetest provides in-process fakes for testing code built on
// the transcription packages: a job API server and a live recognition engine.
package transcribetest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/transcribekit/auth/jwt"
	"github.com/kbukum/transcribekit/transcription"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Default identifiers handed out by the fake presigned-url endpoint.
const (
	DefaultJobName = "job-1"
	DefaultS3Key   = "k1"
)

// RecordedRequest is one call the fake received.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Server is a scripted fake of the job API.
//
// Status queries walk through the scripted results; the last one repeats.
// Individual queries can be answered with an HTTP error instead.
type Server struct {
	ts *httptest.Server

	mu           sync.Mutex
	jobName      string
	s3Key        string
	results      []transcription.Result
	resultErrors map[int]int
	failures     map[string]int
	tokens       *jwt.ServiceTokens
	requests     []RecordedRequest
	uploads      map[string][]byte
	uploadTypes  map[string]string
	starts       []transcription.Job
	subjects     []string
	resultCalls  int
}

// Option configures a Server.
type Option func(*Server)

// WithJob sets the job name and storage key returned by presigned-url.
func WithJob(jobName, s3Key string) Option {
	return func(s *Server) {
		s.jobName = jobName
		s.s3Key = s3Key
	}
}

// WithResults scripts the answers to successive status queries.
func WithResults(results ...transcription.Result) Option {
	return func(s *Server) {
		s.results = results
	}
}

// WithResultError answers the status query with the given zero-based index
// with an HTTP error status instead of a result.
func WithResultError(query, status int) Option {
	return func(s *Server) {
		s.resultErrors[query] = status
	}
}

// WithFailure makes every call to path fail with status.
// Use "/upload" for the presigned PUT.
func WithFailure(path string, status int) Option {
	return func(s *Server) {
		s.failures[path] = status
	}
}

// WithTokens requires a bearer token minted by tokens on every API route.
// The presigned PUT stays unauthenticated.
func WithTokens(tokens *jwt.ServiceTokens) Option {
	return func(s *Server) {
		s.tokens = tokens
	}
}

// NewServer starts a fake job API. It is closed when the test ends.
func NewServer(t testing.TB, opts ...Option) *Server {
	t.Helper()
	s := &Server{
		jobName:      DefaultJobName,
		s3Key:        DefaultS3Key,
		results:      []transcription.Result{{Status: transcription.StatusInProgress}},
		resultErrors: make(map[int]int),
		failures:     make(map[string]int),
		uploads:      make(map[string][]byte),
		uploadTypes:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}

	engine := gin.New()
	engine.Use(s.record, s.failure)

	api := engine.Group("/transcribe", s.authenticate)
	api.POST("/presigned-url", s.presign)
	api.POST("/start", s.start)
	api.GET("/result", s.result)
	engine.PUT("/upload/*key", s.upload)

	s.ts = httptest.NewServer(engine)
	t.Cleanup(s.ts.Close)
	return s
}

// URL is the base URL of the fake.
func (s *Server) URL() string { return s.ts.URL }

// UploadURL is the presigned URL the fake hands out for key.
func (s *Server) UploadURL(key string) string { return s.ts.URL + "/upload/" + key }

// ResultCalls returns how many status queries were received.
func (s *Server) ResultCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resultCalls
}

// Starts returns the bodies of all start calls.
func (s *Server) Starts() []transcription.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]transcription.Job(nil), s.starts...)
}

// Upload returns the bytes and content type PUT under key.
func (s *Server) Upload(key string) ([]byte, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.uploads[key]
	return data, s.uploadTypes[key], ok
}

// Requests returns every request received, in order.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// Subjects returns the token subjects seen on authenticated routes.
func (s *Server) Subjects() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.subjects...)
}

func (s *Server) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(strings.NewReader(string(body)))

	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.Query(),
		Header: c.Request.Header.Clone(),
		Body:   body,
	})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) failure(c *gin.Context) {
	path := c.Request.URL.Path
	if strings.HasPrefix(path, "/upload/") {
		path = "/upload"
	}
	s.mu.Lock()
	status, ok := s.failures[path]
	s.mu.Unlock()
	if ok {
		c.AbortWithStatusJSON(status, gin.H{"error": "injected failure"})
		return
	}
	c.Next()
}

func (s *Server) authenticate(c *gin.Context) {
	if s.tokens == nil {
		c.Next()
		return
	}
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
		return
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	s.mu.Lock()
	s.subjects = append(s.subjects, claims.Subject)
	s.mu.Unlock()
	c.Next()
}

func (s *Server) presign(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
		Format string `json:"format"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	jobName, key := s.jobName, s.s3Key
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"uploadUrl": s.UploadURL(key),
		"s3Key":     key,
		"jobName":   jobName,
	})
}

func (s *Server) upload(c *gin.Context) {
	if c.GetHeader("Authorization") != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "presigned uploads take no credentials"})
		return
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	key := strings.TrimPrefix(c.Param("key"), "/")
	s.mu.Lock()
	s.uploads[key] = body
	s.uploadTypes[key] = c.GetHeader("Content-Type")
	s.mu.Unlock()
	c.Status(http.StatusOK)
}

func (s *Server) start(c *gin.Context) {
	var job transcription.Job
	if err := c.ShouldBindJSON(&job); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	s.starts = append(s.starts, job)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"jobName": job.JobName, "status": string(transcription.StatusInProgress)})
}

func (s *Server) result(c *gin.Context) {
	s.mu.Lock()
	n := s.resultCalls
	s.resultCalls++
	status, injected := s.resultErrors[n]
	var res transcription.Result
	if len(s.results) > 0 {
		res = s.results[min(n, len(s.results)-1)]
	}
	s.mu.Unlock()

	if injected {
		c.JSON(status, gin.H{"error": http.StatusText(status)})
		return
	}
	if c.Query("jobName") == "" || c.Query("userId") == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "jobName and userId are required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(res.Status), "transcript": res.Transcript})
}
