package authz

import (
	"teamtrack/internal/model"
)

// Engine evaluates whether a user may act on a project or task. Callers check
// resource existence first; these rules assume the resource was found.
//
// A global admin passes every check. The project owner counts as a project
// admin even when absent from the member list.
type Engine struct{}

func New() *Engine {
	return &Engine{}
}

func (e *Engine) isGlobalAdmin(user *model.User) bool {
	return user.Role == model.GlobalRoleAdmin
}

func (e *Engine) isProjectAdmin(user *model.User, project *model.Project) bool {
	if project.OwnerID == user.ID {
		return true
	}
	m := project.Member(user.ID)
	return m != nil && m.Role == model.ProjectRoleAdmin
}

// CanCreateProject: global admins only.
func (e *Engine) CanCreateProject(user *model.User) bool {
	return e.isGlobalAdmin(user)
}

// CanViewProject: owner or any team member, regardless of scoped role.
func (e *Engine) CanViewProject(user *model.User, project *model.Project) bool {
	if e.isGlobalAdmin(user) || project.OwnerID == user.ID {
		return true
	}
	return project.Member(user.ID) != nil
}

// CanUpdateProject shares the view rule: any member may update.
func (e *Engine) CanUpdateProject(user *model.User, project *model.Project) bool {
	return e.CanViewProject(user, project)
}

// CanDeleteProject: owner only (or global admin).
func (e *Engine) CanDeleteProject(user *model.User, project *model.Project) bool {
	return e.isGlobalAdmin(user) || project.OwnerID == user.ID
}

// CanManageMembers covers invite, remove and role changes.
func (e *Engine) CanManageMembers(user *model.User, project *model.Project) bool {
	return e.isGlobalAdmin(user) || e.isProjectAdmin(user, project)
}

// CanCreateTask: project admin, owner or global admin.
func (e *Engine) CanCreateTask(user *model.User, project *model.Project) bool {
	return e.isGlobalAdmin(user) || e.isProjectAdmin(user, project)
}

// CanUpdateTask: creator, assignee, project admin or global admin.
func (e *Engine) CanUpdateTask(user *model.User, task *model.Task, project *model.Project) bool {
	if e.isGlobalAdmin(user) || task.CreatedBy == user.ID {
		return true
	}
	if task.AssignedTo != nil && *task.AssignedTo == user.ID {
		return true
	}
	return e.isProjectAdmin(user, project)
}

// CanDeleteTask: creator or global admin. Assignees and project admins are
// deliberately excluded, unlike update.
func (e *Engine) CanDeleteTask(user *model.User, task *model.Task) bool {
	return e.isGlobalAdmin(user) || task.CreatedBy == user.ID
}
