package models

// These structs define the JSON payloads for the Cloud Function surface of
// the filer (HTTP trigger and Cloud Scheduler -> Pub/Sub trigger).

// FileRequest is the optional input for a filer invocation. MaxRows caps how
// many rows a single invocation may process; 0 means no cap.
type FileRequest struct {
	MaxRows int `json:"maxRows"`
}

// FileResponse is the output of a filer invocation.
type FileResponse struct {
	Status string `json:"status"`
	Report Report `json:"report"`
}

// MessagePublishedData is the CloudEvent payload delivered when Cloud
// Scheduler publishes the trigger message to Pub/Sub.
type MessagePublishedData struct {
	Message PubsubMessage `json:"message"`
}

// PubsubMessage carries the scheduler's message body. Data may hold a JSON
// FileRequest; an empty body is a plain tick.
type PubsubMessage struct {
	Data []byte `json:"data"`
}
