// Package httpclient provides the HTTP client used to talk to the
// transcription job API: JSON helpers, auth, status classification and
// optional client-side rate limiting and circuit breaking.
//
// The client never retries. Callers that want to repeat a request (the job
// poller on 429, for instance) do so explicitly.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.example.com",
//	    Timeout: 30 * time.Second,
//	    Auth:    httpclient.BearerAuth("my-token"),
//	})
//
//	resp, err := httpclient.Get[StatusBody](client, ctx, "/transcribe/result",
//	    httpclient.WithQueryParam("jobName", job))
//	if httpclient.IsRateLimit(err) {
//	    // back off
//	}
package httpclient
