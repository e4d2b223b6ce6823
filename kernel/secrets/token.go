// Package secrets resolves the API token from a literal value, a file, or
// AWS Secrets Manager.
package secrets

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
	"github.com/michaelquigley/pfxlog"
	"github.com/pkg/errors"
)

// SecretKey is the key looked up when a secret holds a JSON object.
const SecretKey = "SSU_API_TOKEN"

var ErrNoToken = errors.New("no API token given (use --token, --token-secret or SSU_API_TOKEN)")

// Source describes where the token comes from. Token wins over SecretARN.
type Source struct {
	Token       string
	TokenIsFile bool
	SecretARN   string
}

// newSecretsManager is replaced in tests.
var newSecretsManager = func(arn string) (secretsmanageriface.SecretsManagerAPI, error) {
	cfg := aws.NewConfig()
	// arn:aws:secretsmanager:REGION:ACCOUNT:secret:NAME
	if parts := strings.Split(arn, ":"); len(parts) >= 4 && parts[3] != "" {
		cfg = cfg.WithRegion(parts[3])
	}
	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            *cfg,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to create AWS session")
	}
	return secretsmanager.New(sess), nil
}

func Resolve(ctx context.Context, src Source) (string, error) {
	switch {
	case src.Token != "" && src.TokenIsFile:
		return readTokenFile(src.Token)
	case src.Token != "":
		return strings.TrimSpace(src.Token), nil
	case src.SecretARN != "":
		return fetchSecret(ctx, src.SecretARN)
	}
	return "", ErrNoToken
}

func readTokenFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "unable to read token file '%s'", path)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", errors.Errorf("token file '%s' is empty", path)
	}
	return token, nil
}

func fetchSecret(ctx context.Context, arn string) (string, error) {
	sm, err := newSecretsManager(arn)
	if err != nil {
		return "", err
	}
	out, err := sm.GetSecretValueWithContext(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(arn)})
	if err != nil {
		return "", errors.Wrapf(err, "unable to read secret '%s'", arn)
	}
	if out.SecretString == nil {
		return "", errors.Errorf("secret '%s' has no string value", arn)
	}

	raw := strings.TrimSpace(*out.SecretString)
	if strings.HasPrefix(raw, "{") {
		var values map[string]string
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			return "", errors.Wrapf(err, "unable to parse secret '%s'", arn)
		}
		token, found := values[SecretKey]
		if !found || token == "" {
			return "", errors.Errorf("secret '%s' has no '%s' key", arn, SecretKey)
		}
		pfxlog.Logger().Debugf("loaded token from secret '%s' (%d keys)", arn, len(values))
		return token, nil
	}
	if raw == "" {
		return "", errors.Errorf("secret '%s' is empty", arn)
	}
	return raw, nil
}
