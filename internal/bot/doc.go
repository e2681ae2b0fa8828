// Package bot implements the Telegram chat bot. It has no business logic:
// it parses commands, calls the external identity API over HTTP and renders
// the results as chat messages.
//
// Commands:
//
//	/start          greeting and binding code
//	/login          binding code
//	/tasks          one message per task
//	/complete_<id>  complete a task
package bot
