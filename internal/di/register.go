package di

import "github.com/samber/do/v2"

// RegisterSingletons registers all service providers as singletons.
// Dependency order:
//  1. Config
//  2. Logger (Config)
//  3. Cache (Config, Logger)
//  4. Authenticator (Config, Cache, Logger)
//  5. Handler (Config, Authenticator, Logger)
//  6. Server (Config, Handler)
func RegisterSingletons(i do.Injector) {
	do.Provide(i, NewConfig)
	do.Provide(i, NewLogger)
	do.Provide(i, NewCache)
	do.Provide(i, NewAuthenticator)
	do.Provide(i, NewHandler)
	do.Provide(i, NewHTTPServer)
}
