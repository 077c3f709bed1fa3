// Package editor talks to the external image editing service.
//
// The service follows the OpenAI images/edits contract: a multipart POST
// carrying the fitted canvas, the canvas mask, a prompt, and the requested
// square size. Its answer arrives in one of two delivery forms, an inline
// base64 payload or a URL to fetch. Edit reports which form was used through
// the tagged Result type and Resolve turns either form into a decoded image.
//
// Failures are tagged with the faults markers: transport errors and non-2xx
// statuses are faults.ErrEditService, while payloads of any other shape are
// faults.ErrResponseFormat. The client never retries.
package editor
