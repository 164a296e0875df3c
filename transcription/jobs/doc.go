// Package jobs turns a recording into text through the asynchronous job API.
//
// The routine has three steps. UploadAndSubmit obtains an upload URL and job
// name, PUTs the audio and registers the job. Poll then queries the job until
// it reaches a terminal status:
//
//	client := jobs.NewClient(hc)
//	job, err := client.UploadAndSubmit(ctx, jobs.UploadRequest{Audio: audio, UserID: "user-1"})
//	poller, err := jobs.NewPoller(client, jobs.DefaultPollConfig())
//	text, err := poller.Poll(ctx, job.JobName, job.UserID)
//
// Between queries Poll waits on a fixed schedule (500ms up to 5s) plus up to
// 500ms of jitter. A rate-limited query waits min(10s, 1s*2^n) instead, n
// being the number of queries made so far. Only polling is retried; upload
// and start errors surface immediately.
package jobs
