// Package service contains the application's use cases. It coordinates the
// store interfaces, the realtime publisher and the notification dispatcher
// behind two request surfaces: the authenticated web API, keyed by account,
// and the chat-facing API, keyed by an external identity that must first be
// bound to an account through the IdentityRegistry.
//
// Writes commit first; realtime fan-out and notification enqueueing happen
// afterwards and can never fail or roll back the write that triggered them.
package service
