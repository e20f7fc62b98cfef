// Package gemini provides the generative-text API client used for
// transcript summarization.
//
// # Protocol
//
// The client POSTs {base_url}/models/{model}:generateContent?key={key}
// with a contents/parts/text request body and reads the reply from the
// first candidate's content parts. Any other response shape is a
// protocol error.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Generate: send a prompt, receive the generated text.
// Client.HealthCheck: verify the API key and model via a metadata lookup.
//
// # Failure Behaviour
//
// A generation request is a single synchronous exchange with a generous
// timeout (60s by default); there is no retry loop. Non-2xx responses
// surface as *StatusError carrying the status code and raw body so
// callers can report exactly what the API said.
package gemini
