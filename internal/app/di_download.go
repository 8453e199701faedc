package app

import (
	"context"
	"fmt"

	downloadHTTP "github.com/opsdeck/filegate/internal/download/http"
	downloadRepository "github.com/opsdeck/filegate/internal/download/repository"
	downloadService "github.com/opsdeck/filegate/internal/download/service"
	downloadUseCase "github.com/opsdeck/filegate/internal/download/usecase"
)

// SettingRepository returns the setting repository based on database driver.
func (c *Container) SettingRepository() (downloadService.SettingRepository, error) {
	var err error
	c.settingRepoInit.Do(func() {
		c.settingRepo, err = c.initSettingRepository()
		if err != nil {
			c.initErrors["settingRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["settingRepo"]; exists {
		return nil, storedErr
	}
	return c.settingRepo, nil
}

// SecretKeeper returns the KMS keeper wrapping the signing secret at rest.
// Returns nil when no KMS key URI is configured.
func (c *Container) SecretKeeper() (downloadService.SecretKeeper, error) {
	var err error
	c.secretKeeperInit.Do(func() {
		if c.config.KMSKeyURI == "" {
			return
		}
		c.secretKeeper, err = downloadService.OpenSecretKeeper(context.Background(), c.config.KMSKeyURI)
		if err != nil {
			c.initErrors["secretKeeper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretKeeper"]; exists {
		return nil, storedErr
	}
	return c.secretKeeper, nil
}

// SecretProvider returns the token signing secret provider.
func (c *Container) SecretProvider() (downloadService.SecretProvider, error) {
	var err error
	c.secretProviderInit.Do(func() {
		c.secretProvider, err = c.initSecretProvider()
		if err != nil {
			c.initErrors["secretProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretProvider"]; exists {
		return nil, storedErr
	}
	return c.secretProvider, nil
}

// TokenService returns the capability token service.
func (c *Container) TokenService() (downloadService.TokenService, error) {
	var err error
	c.tokenServiceInit.Do(func() {
		c.tokenService, err = c.initTokenService()
		if err != nil {
			c.initErrors["tokenService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenService"]; exists {
		return nil, storedErr
	}
	return c.tokenService, nil
}

// AuditSigner returns the audit entry signer.
func (c *Container) AuditSigner() downloadService.AuditSigner {
	c.auditSignerInit.Do(func() {
		c.auditSigner = downloadService.NewAuditSigner()
	})
	return c.auditSigner
}

// PathResolver returns the resolver mapping resource records to files under
// the configured resource root.
func (c *Container) PathResolver() (downloadService.PathResolver, error) {
	var err error
	c.pathResolverInit.Do(func() {
		c.pathResolver, err = downloadService.NewPathResolver(c.config.ResourceRoot)
		if err != nil {
			c.initErrors["pathResolver"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["pathResolver"]; exists {
		return nil, storedErr
	}
	return c.pathResolver, nil
}

// ResourceRepository returns the resource metadata repository based on database driver.
func (c *Container) ResourceRepository() (downloadUseCase.ResourceRepository, error) {
	var err error
	c.resourceRepoInit.Do(func() {
		c.resourceRepo, err = c.initResourceRepository()
		if err != nil {
			c.initErrors["resourceRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["resourceRepo"]; exists {
		return nil, storedErr
	}
	return c.resourceRepo, nil
}

// AuditLogRepository returns the audit log repository based on database driver.
func (c *Container) AuditLogRepository() (downloadUseCase.AuditLogRepository, error) {
	var err error
	c.auditLogRepoInit.Do(func() {
		c.auditLogRepo, err = c.initAuditLogRepository()
		if err != nil {
			c.initErrors["auditLogRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditLogRepo"]; exists {
		return nil, storedErr
	}
	return c.auditLogRepo, nil
}

// AuditLogUseCase returns the audit log use case.
func (c *Container) AuditLogUseCase() (downloadUseCase.AuditLogUseCase, error) {
	var err error
	c.auditLogUseCaseInit.Do(func() {
		c.auditLogUseCase, err = c.initAuditLogUseCase()
		if err != nil {
			c.initErrors["auditLogUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditLogUseCase"]; exists {
		return nil, storedErr
	}
	return c.auditLogUseCase, nil
}

// DownloadUseCase returns the download gateway use case.
func (c *Container) DownloadUseCase() (downloadUseCase.DownloadUseCase, error) {
	var err error
	c.downloadUseCaseInit.Do(func() {
		c.downloadUseCase, err = c.initDownloadUseCase()
		if err != nil {
			c.initErrors["downloadUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["downloadUseCase"]; exists {
		return nil, storedErr
	}
	return c.downloadUseCase, nil
}

// DownloadHandler returns the HTTP handler streaming resource downloads.
func (c *Container) DownloadHandler() (*downloadHTTP.DownloadHandler, error) {
	var err error
	c.downloadHandlerInit.Do(func() {
		c.downloadHandler, err = c.initDownloadHandler()
		if err != nil {
			c.initErrors["downloadHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["downloadHandler"]; exists {
		return nil, storedErr
	}
	return c.downloadHandler, nil
}

// LinkHandler returns the HTTP handler minting shareable download links.
func (c *Container) LinkHandler() (*downloadHTTP.LinkHandler, error) {
	var err error
	c.linkHandlerInit.Do(func() {
		c.linkHandler, err = c.initLinkHandler()
		if err != nil {
			c.initErrors["linkHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["linkHandler"]; exists {
		return nil, storedErr
	}
	return c.linkHandler, nil
}

// initSettingRepository creates the setting repository instance.
func (c *Container) initSettingRepository() (downloadService.SettingRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for setting repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return downloadRepository.NewMySQLSettingRepository(db), nil
	case "postgres":
		return downloadRepository.NewPostgreSQLSettingRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSecretProvider creates the secret provider with its dependencies.
func (c *Container) initSecretProvider() (downloadService.SecretProvider, error) {
	settingRepo, err := c.SettingRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get setting repository for secret provider: %w", err)
	}

	keeper, err := c.SecretKeeper()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret keeper for secret provider: %w", err)
	}

	return downloadService.NewSecretProvider(settingRepo, keeper), nil
}

// initTokenService creates the token service with its dependencies.
func (c *Container) initTokenService() (downloadService.TokenService, error) {
	secretProvider, err := c.SecretProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret provider for token service: %w", err)
	}

	return downloadService.NewTokenService(secretProvider), nil
}

// initResourceRepository creates the resource repository instance.
func (c *Container) initResourceRepository() (downloadUseCase.ResourceRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for resource repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return downloadRepository.NewMySQLResourceRepository(db), nil
	case "postgres":
		return downloadRepository.NewPostgreSQLResourceRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuditLogRepository creates the audit log repository instance.
func (c *Container) initAuditLogRepository() (downloadUseCase.AuditLogRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit log repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return downloadRepository.NewMySQLAuditLogRepository(db), nil
	case "postgres":
		return downloadRepository.NewPostgreSQLAuditLogRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuditLogUseCase creates the audit log use case with all its dependencies.
func (c *Container) initAuditLogUseCase() (downloadUseCase.AuditLogUseCase, error) {
	auditLogRepo, err := c.AuditLogRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log repository for audit log use case: %w", err)
	}

	secretProvider, err := c.SecretProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret provider for audit log use case: %w", err)
	}

	return downloadUseCase.NewAuditLogUseCase(auditLogRepo, c.AuditSigner(), secretProvider), nil
}

// initDownloadUseCase creates the download gateway with all its dependencies,
// wrapped with the metrics decorator when metrics are enabled.
func (c *Container) initDownloadUseCase() (downloadUseCase.DownloadUseCase, error) {
	tokenService, err := c.TokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get token service for download use case: %w", err)
	}

	resolver, err := c.PathResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get path resolver for download use case: %w", err)
	}

	resourceRepo, err := c.ResourceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get resource repository for download use case: %w", err)
	}

	auditLogUseCase, err := c.AuditLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log use case for download use case: %w", err)
	}

	useCase := downloadUseCase.NewDownloadUseCase(
		c.config.DownloadTokenTTL,
		tokenService,
		resolver,
		downloadUseCase.NewAccessAuthorizer(),
		resourceRepo,
		auditLogUseCase,
		downloadUseCase.NewOSFileSystem(),
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for download use case: %w", err)
		}
		useCase = downloadUseCase.NewDownloadUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

// initDownloadHandler creates the download HTTP handler.
func (c *Container) initDownloadHandler() (*downloadHTTP.DownloadHandler, error) {
	useCase, err := c.DownloadUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get download use case for download handler: %w", err)
	}

	return downloadHTTP.NewDownloadHandler(useCase, c.Logger()), nil
}

// initLinkHandler creates the download link HTTP handler.
func (c *Container) initLinkHandler() (*downloadHTTP.LinkHandler, error) {
	useCase, err := c.DownloadUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get download use case for link handler: %w", err)
	}

	return downloadHTTP.NewLinkHandler(useCase, c.config.DownloadBaseURL, c.Logger()), nil
}
