package users_controllers

import (
	"time"

	"logview/internal/features/sessions"
	users_services "logview/internal/features/users/services"
	rate_limit "logview/internal/util/rate_limit"

	"golang.org/x/time/rate"
)

var userController = &UserController{
	users_services.GetUserService(),
	sessions.GetSessionService(),
	rate.NewLimiter(rate.Every(time.Second), 10),
	rate_limit.NewRateLimiter(),
}

func GetUserController() *UserController {
	return userController
}
