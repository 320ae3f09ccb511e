// Package server assembles the gin engine: middleware, routes and the
// handler set behind them.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/planora/planora/internal/logging"
	"github.com/planora/planora/internal/server/handlers"
	"github.com/planora/planora/internal/server/middleware"
	"github.com/planora/planora/internal/service"
)

// Services bundles everything the router serves.
type Services struct {
	Projects  *service.ProjectService
	Tasks     *service.TaskService
	Tags      *service.TagService
	Notes     *service.NoteService
	Calendar  *service.CalendarService
	Dashboard *service.DashboardService
	Images    *service.ImageService
}

// NewRouter builds the engine. Everything under /v1 requires a valid
// bearer token; /ping stays open for probes.
func NewRouter(svc Services, secret []byte, log logging.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	projects := handlers.NewProjectHandler(svc.Projects, svc.Tasks)
	tasks := handlers.NewTaskHandler(svc.Tasks)
	tags := handlers.NewTagHandler(svc.Tags)
	notes := handlers.NewNoteHandler(svc.Notes)
	calendar := handlers.NewCalendarHandler(svc.Calendar)
	dashboard := handlers.NewDashboardHandler(svc.Dashboard)
	images := handlers.NewImageHandler(svc.Images)

	v1 := r.Group("/v1", middleware.Authenticate(secret))
	{
		v1.GET("/projects", projects.List)
		v1.POST("/projects", projects.Create)
		v1.POST("/projects/reorder", projects.Reorder)
		v1.GET("/projects/:id", projects.Get)
		v1.PUT("/projects/:id", projects.Update)
		v1.DELETE("/projects/:id", projects.Delete)
		v1.GET("/projects/:id/tasks", projects.Tasks)
		v1.GET("/projects/:id/task-stats", projects.Stats)

		v1.POST("/tasks", tasks.Create)
		v1.POST("/tasks/bulk-status", tasks.BulkSetStatus)
		v1.POST("/tasks/reorder", tasks.Reorder)
		v1.GET("/tasks/overdue", tasks.Overdue)
		v1.GET("/tasks/due-soon", tasks.DueSoon)
		v1.GET("/tasks/:id", tasks.Get)
		v1.PATCH("/tasks/:id", tasks.Update)
		v1.DELETE("/tasks/:id", tasks.Delete)
		v1.PATCH("/tasks/:id/status", tasks.SetStatus)
		v1.PATCH("/tasks/:id/toggle-completion", tasks.ToggleCompletion)

		v1.GET("/tags", tags.List)
		v1.POST("/tags", tags.Create)
		v1.PATCH("/tags/:id", tags.Update)
		v1.DELETE("/tags/:id", tags.Delete)

		v1.GET("/notes", notes.List)
		v1.POST("/notes", notes.Create)
		v1.POST("/notes/empty", notes.CreateEmpty)
		v1.GET("/notes/search", notes.Search)
		v1.GET("/notes/:id", notes.Get)
		v1.PUT("/notes/:id", notes.Update)
		v1.DELETE("/notes/:id", notes.Delete)
		v1.PATCH("/notes/:id/pin", notes.TogglePin)

		v1.POST("/notes/:id/images", images.Upload)
		v1.GET("/notes/:id/images", images.List)
		v1.GET("/images", images.ListAll)
		v1.DELETE("/images/:id", images.Delete)

		v1.GET("/calendar/events", calendar.List)
		v1.POST("/calendar/events", calendar.Create)
		v1.GET("/calendar/events-for-date", calendar.ForDate)
		v1.GET("/calendar/upcoming", calendar.Upcoming)
		v1.GET("/calendar/events/:id", calendar.Get)
		v1.PUT("/calendar/events/:id", calendar.Update)
		v1.DELETE("/calendar/events/:id", calendar.Delete)
		v1.PATCH("/calendar/events/:id/dates", calendar.UpdateDates)

		v1.GET("/dashboard", dashboard.Summary)
	}

	return r
}
