package docs

import "github.com/swaggo/swag"

// @title           TeamTrack API
// @version         1.0
// @description     API for managing projects, tasks and team collaboration

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token

// @tag.name Auth
// @tag.description Registration, login and session management

// @tag.name Projects
// @tag.description Project management operations

// @tag.name Tasks
// @tag.description Task management operations

// @tag.name Team
// @tag.description Flat roster operations

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "TeamTrack API",
        "version": "1.0"
    },
    "basePath": "/"
}`

func init() {
	swag.Register(swag.Name, &s{})
}

type s struct{}

func (s *s) ReadDoc() string {
	return docTemplate
}
