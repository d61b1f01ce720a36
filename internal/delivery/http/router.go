package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "eventsapi/docs"
	"eventsapi/internal/delivery/http/controllers"
)

// EventsPath is the collection path of the events API.
const EventsPath = "/api/v3/app/events"

// NewRouter initializes the HTTP router with all application routes.
// When uploadDir is set, locally stored images are served under /uploads/.
func NewRouter(eventController *controllers.EventController, healthController *controllers.HealthController, uploadDir string) *http.ServeMux {
	mux := http.NewServeMux()

	// Events
	mux.HandleFunc("POST "+EventsPath, eventController.CreateEvent)
	mux.HandleFunc("POST "+EventsPath+"/{$}", eventController.CreateEvent)
	mux.HandleFunc("GET "+EventsPath, eventController.ListEvents)
	mux.HandleFunc("GET "+EventsPath+"/{$}", eventController.ListEvents)
	mux.HandleFunc("PUT "+EventsPath+"/{id}", eventController.UpdateEvent)
	mux.HandleFunc("DELETE "+EventsPath+"/{id}", eventController.DeleteEvent)

	mux.HandleFunc("GET /healthz", healthController.Check)

	if uploadDir != "" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
