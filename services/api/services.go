package apisvc

import (
	"context"

	"github.com/trezcool/projectgl/core"
	"github.com/trezcool/projectgl/storage"
)

// Services groups every backend service around one Client.
type Services struct {
	Client            *Client
	Auth              *AuthService
	Users             *UserService
	Teams             *TeamService
	Sprints           *SprintService
	Comments          *PostService
	Feedbacks         *PostService
	Flags             *FlagService
	Notifications     *NotificationService
	GradeScales       *GradeScaleService
	Categories        *CategoryService
	Details           *DetailService
	BonusMalus        *BonusMalusService
	TeamOrders        *TeamOrderService
	ProjectGrades     *ProjectGradeService
	TeamGrades        *TeamGradeService
	UserGrades        *UserGradeService
	SubGrades         *SubGradeService
	Evaluations       *EvaluationService
	StudentTeamGrades *StudentTeamGradeService
}

// New builds the services of conf's backend. The credential lives at conf.Credential.Key
// in creds.
func New(conf *core.Config, creds storage.Storage, notifier core.Notifier, logger core.Logger) *Services {
	c := NewClient(conf.API, creds, conf.Credential.Key, notifier, logger)
	return &Services{
		Client:            c,
		Auth:              NewAuthService(c, creds, conf.Credential.Key, conf.StrictRoles),
		Users:             NewUserService(c),
		Teams:             NewTeamService(c),
		Sprints:           NewSprintService(c),
		Comments:          NewCommentService(c),
		Feedbacks:         NewFeedbackService(c),
		Flags:             NewFlagService(c),
		Notifications:     NewNotificationService(c),
		GradeScales:       NewGradeScaleService(c),
		Categories:        NewCategoryService(c),
		Details:           NewDetailService(c),
		BonusMalus:        NewBonusMalusService(c),
		TeamOrders:        NewTeamOrderService(c),
		ProjectGrades:     NewProjectGradeService(c),
		TeamGrades:        NewTeamGradeService(c),
		UserGrades:        NewUserGradeService(c),
		SubGrades:         NewSubGradeService(c),
		Evaluations:       NewEvaluationService(c),
		StudentTeamGrades: NewStudentTeamGradeService(c),
	}
}

// LogoutOnUnauthorized wires every 401 answer to revoke, given the credential the
// rejected request carried.
func (s *Services) LogoutOnUnauthorized(revoke func(token string)) {
	s.Client.OnUnauthorized(func(_ context.Context, token string) { revoke(token) })
}
