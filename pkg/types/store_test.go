package types

import (
	"errors"
	"testing"
)

func TestStoreConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  StoreConfig
		wantErr error
	}{
		{
			name:    "empty path returns ErrDBPathEmpty",
			config:  StoreConfig{Path: ""},
			wantErr: ErrDBPathEmpty,
		},
		{
			name:    "relative path is valid",
			config:  StoreConfig{Path: "db.sqlite"},
			wantErr: nil,
		},
		{
			name:    "absolute path is valid",
			config:  StoreConfig{Path: "/tmp/cfgsync/db.sqlite"},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestIsUserError(t *testing.T) {
	for _, err := range []error{ErrNotFound, ErrNoMatch, ErrInvalidField, ErrAmbiguousInput} {
		if !IsUserError(errors.Join(errors.New("context"), err)) {
			t.Errorf("expected %v to be a user error", err)
		}
	}
	for _, err := range []error{ErrIO, ErrStorage, ErrStorageUnavailable} {
		if IsUserError(err) {
			t.Errorf("expected %v not to be a user error", err)
		}
	}
}
