package http

import (
	"github.com/pugly/api/internal/application/otp"
	"github.com/pugly/api/internal/infrastructure/dynamo"
	jwtinfra "github.com/pugly/api/internal/infrastructure/jwt"
	redisinfra "github.com/pugly/api/internal/infrastructure/redis"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    *dynamo.UserRepo
	StoreRepo   *dynamo.StoreRepo
	Cache       *redisinfra.Cache
	Deliverer   otp.Deliverer
	JWTProvider *jwtinfra.Provider
}
