// Package google provides shared construction and rate limiting for the
// Google API clients used by the sheet and file store adapters.
package google

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

// NewSheetsService creates a Sheets API service authenticated with a
// service-account credentials file.
func NewSheetsService(ctx context.Context, credentialsFile string) (*sheets.Service, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return svc, nil
}

// NewDriveService creates a Drive API service authenticated with a
// service-account credentials file.
func NewDriveService(ctx context.Context, credentialsFile string) (*drive.Service, error) {
	svc, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(drive.DriveScope),
	)
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}
	return svc, nil
}

// NewSheetsServiceWithTokenSource creates a Sheets API service using the
// provided TokenSource, for deployments that authenticate per user.
func NewSheetsServiceWithTokenSource(ctx context.Context, ts oauth2.TokenSource) (*sheets.Service, error) {
	svc, err := sheets.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return svc, nil
}

// NewDriveServiceWithTokenSource creates a Drive API service using the
// provided TokenSource.
func NewDriveServiceWithTokenSource(ctx context.Context, ts oauth2.TokenSource) (*drive.Service, error) {
	svc, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}
	return svc, nil
}

// NewServices creates the Sheets and Drive services from the configured
// auth material. A non-empty access token wins over the credentials file,
// so per-user deployments can run without a service-account key on disk.
func NewServices(ctx context.Context, credentialsFile, accessToken string) (*sheets.Service, *drive.Service, error) {
	if accessToken != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
		sheetsSvc, err := NewSheetsServiceWithTokenSource(ctx, ts)
		if err != nil {
			return nil, nil, err
		}
		driveSvc, err := NewDriveServiceWithTokenSource(ctx, ts)
		if err != nil {
			return nil, nil, err
		}
		return sheetsSvc, driveSvc, nil
	}

	sheetsSvc, err := NewSheetsService(ctx, credentialsFile)
	if err != nil {
		return nil, nil, err
	}
	driveSvc, err := NewDriveService(ctx, credentialsFile)
	if err != nil {
		return nil, nil, err
	}
	return sheetsSvc, driveSvc, nil
}

// MapError converts a Google API error to the matching domain error.
// 404 becomes domain.ErrNotFound; 5xx becomes domain.ErrStoreUnavailable.
// Other errors pass through unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 404:
			return domain.ErrNotFound
		case apiErr.Code >= 500:
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
	}
	return err
}

// IsRateLimited reports whether the error is a 429 from a Google API.
func IsRateLimited(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == 429
}
