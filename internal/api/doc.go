// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between external clients
// and the task and identity services.
//
// Two surfaces share one router. The web surface under /api requires a JWT.
// The external identity surface under /api/telegram is called by the chat
// bot and identifies the caller by telegram_id. The realtime channel is a
// websocket at /ws/tasks.
package api
