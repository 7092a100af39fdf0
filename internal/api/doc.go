// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between external clients
// and the task store, translating HTTP concerns to store operations.
//
//	@title			Task API
//	@version		1.0.0
//	@description	A simple Task Management API.
//
//	@contact.name	API Support
//	@contact.email	manufm97@gmail.com
//
//	@BasePath		/
//
//	@tag.name			tasks
//	@tag.description	Task management
//
//	@tag.name			health
//	@tag.description	Liveness checks
package api
