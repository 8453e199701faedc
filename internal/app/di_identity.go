package app

import (
	"fmt"

	identityRepository "github.com/opsdeck/filegate/internal/identity/repository"
	identityService "github.com/opsdeck/filegate/internal/identity/service"
	identityUseCase "github.com/opsdeck/filegate/internal/identity/usecase"
)

// SessionRepository returns the session repository based on database driver.
func (c *Container) SessionRepository() (identityUseCase.SessionRepository, error) {
	var err error
	c.sessionRepoInit.Do(func() {
		c.sessionRepo, err = c.initSessionRepository()
		if err != nil {
			c.initErrors["sessionRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionRepo"]; exists {
		return nil, storedErr
	}
	return c.sessionRepo, nil
}

// SessionUseCase returns the session authentication use case.
func (c *Container) SessionUseCase() (identityUseCase.SessionUseCase, error) {
	var err error
	c.sessionUseCaseInit.Do(func() {
		c.sessionUseCase, err = c.initSessionUseCase()
		if err != nil {
			c.initErrors["sessionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionUseCase"]; exists {
		return nil, storedErr
	}
	return c.sessionUseCase, nil
}

// initSessionRepository creates the session repository instance.
func (c *Container) initSessionRepository() (identityUseCase.SessionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for session repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return identityRepository.NewMySQLSessionRepository(db), nil
	case "postgres":
		return identityRepository.NewPostgreSQLSessionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSessionUseCase creates the session use case with its dependencies.
func (c *Container) initSessionUseCase() (identityUseCase.SessionUseCase, error) {
	sessionRepo, err := c.SessionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get session repository for session use case: %w", err)
	}

	return identityUseCase.NewSessionUseCase(sessionRepo, identityService.NewSessionHasher()), nil
}
