package firebaseapp

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// Options picks the credentials for the shared Firebase app. EncodedCredentials
// (base64 service account JSON) wins over CredentialsFile.
type Options struct {
	ProjectID          string
	EncodedCredentials string
	CredentialsFile    string
}

// NewApp initializes the Firebase app used by Firestore, Firebase Auth and FCM.
func NewApp(ctx context.Context, opts Options) (*firebase.App, error) {
	clientOpts, err := credentialOptions(opts)
	if err != nil {
		return nil, err
	}

	var conf *firebase.Config
	if opts.ProjectID != "" {
		conf = &firebase.Config{ProjectID: opts.ProjectID}
	}

	app, err := firebase.NewApp(ctx, conf, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}
	return app, nil
}

func credentialOptions(opts Options) ([]option.ClientOption, error) {
	if opts.EncodedCredentials != "" {
		decoded, err := base64.StdEncoding.DecodeString(opts.EncodedCredentials)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 firebase credentials: %w", err)
		}
		log.Println("Firebase: Initializing from FCM_SERVICE_ACCOUNT_JSON environment variable.")
		return []option.ClientOption{option.WithCredentialsJSON(decoded)}, nil
	}

	if opts.CredentialsFile != "" {
		if _, err := os.Stat(opts.CredentialsFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("local firebase file not found: %s", opts.CredentialsFile)
		}
		log.Printf("Firebase: Initializing from local file: %s.", opts.CredentialsFile)
		return []option.ClientOption{option.WithCredentialsFile(opts.CredentialsFile)}, nil
	}

	// Application default credentials, or the emulator when FIRESTORE_EMULATOR_HOST is set.
	log.Println("Firebase: No explicit credentials, using application default credentials.")
	return nil, nil
}
