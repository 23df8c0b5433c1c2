package users_services

import (
	"logview/internal/features/sessions"
	users_repositories "logview/internal/features/users/repositories"
)

var userService = NewUserService(
	&users_repositories.UserRepository{},
	&users_repositories.SecretKeyRepository{},
	sessions.GetSessionService(),
)

func GetUserService() *UserService {
	return userService
}
