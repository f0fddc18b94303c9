package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/carabineros/intranet/internal/config"
	"github.com/carabineros/intranet/pkg/clients/mediaclient"
	"github.com/carabineros/intranet/pkg/clients/provisioning"
	"github.com/carabineros/intranet/pkg/clients/sheetsclient"
	"github.com/carabineros/intranet/pkg/db"
)

// AppContext holds the application dependencies shared across all commands.
// SheetsClient, MediaClient and Provisioner are nil when not configured.
type AppContext struct {
	Cfg          *config.Config
	SheetsClient *sheetsclient.Client
	MediaClient  *mediaclient.Client
	Provisioner  *provisioning.Client
	Database     db.Database
	Logger       *zap.Logger
	Ctx          context.Context
}

func (app *AppContext) requireSheets() error {
	if app.SheetsClient == nil {
		return fmt.Errorf("google sheets is not configured: set sheets.credentialsFile")
	}
	return nil
}

func (app *AppContext) requireProvisioner() error {
	if app.Provisioner == nil {
		return fmt.Errorf("%w: set provisioning.url and %s", provisioning.ErrNotConfigured, config.EnvProvisioningKey)
	}
	return nil
}
