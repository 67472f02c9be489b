package config

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// InitFirebase initializes the Firebase Admin SDK used for push delivery
func InitFirebase(cfg AppConfig) (*firebase.App, error) {
	ctx := context.Background()
	fbConfig := &firebase.Config{ProjectID: cfg.FirebaseProjectID}

	// Check for base64 encoded credentials first
	if cfg.FirebaseCredentialsBase64 != "" {
		log.Printf("Using Firebase credentials from base64 environment variable")
		decoded, err := base64.StdEncoding.DecodeString(cfg.FirebaseCredentialsBase64)
		if err != nil {
			return nil, fmt.Errorf("decoding base64 credentials: %w", err)
		}
		return firebase.NewApp(ctx, fbConfig, option.WithCredentialsJSON(decoded))
	}

	credFile := cfg.FirebaseCredentialsFile
	if credFile == "" {
		for _, path := range []string{"firebase-adminsdk.json", "../firebase-adminsdk.json"} {
			if _, err := os.Stat(path); err == nil {
				credFile = path
				break
			}
		}
	}
	if credFile == "" {
		return nil, errors.New("firebase credentials not found: set GOOGLE_APPLICATION_CREDENTIALS or FIREBASE_CREDENTIALS_BASE64")
	}

	log.Printf("Using Firebase credentials file: %s", credFile)
	return firebase.NewApp(ctx, fbConfig, option.WithCredentialsFile(credFile))
}
