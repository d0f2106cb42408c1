// Package core provides the domain types and error taxonomy shared by the
// dataset cleaning client.
//
// This package holds no I/O. It can be used by the transport, the workflow
// orchestrator, the web handlers and the terminal runner without
// modification.
//
// # Payloads
//
// The cleaning backend returns four JSON payloads that the client decodes
// into [UploadResponse], [DatasetProfile], [QualityReport] and
// [CleaningResult]. Profile columns keep the order in which the backend
// listed them (see [Columns]).
//
// # Error Handling
//
// Three error kinds reach the user, each surfaced as a single notification:
//
//   - [ValidationError]: the selected file has an unsupported extension and
//     never reaches the network.
//   - [RequestError]: any failed backend call, with the message resolved
//     from the backend's "detail" field. Matches [ErrRequestFailed].
//   - [StateError]: an action was requested before its precondition held,
//     such as downloading before a cleaning run completed.
//
// Technical errors are mapped to coded user messages using [MapError] for
// the JSON API.
package core
