package models

import (
	"encoding/json"
	"strings"

	"github.com/turtacn/claimctl/pkg/constants"
	"github.com/turtacn/claimctl/pkg/errors"
)

// Credential is service-account key material read once at startup.
// Credential 是启动时读取一次的服务账号密钥材料。
type Credential struct {
	ProjectID    string
	ClientEmail  string
	PrivateKeyID string
	Source       constants.CredentialSource
	// Raw is the original JSON, handed unchanged to the SDK.
	Raw []byte
}

type serviceAccountKey struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
}

// ParseCredential validates raw as a service-account key and extracts its identity fields.
func ParseCredential(raw []byte, source constants.CredentialSource) (*Credential, error) {
	var key serviceAccountKey
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, errors.CredentialInvalid("not valid JSON").WithCause(err)
	}

	if key.Type != constants.ServiceAccountType {
		return nil, errors.CredentialInvalid("type must be "+constants.ServiceAccountType).
			WithMetadata("type", key.Type)
	}

	var missing []string
	if key.ProjectID == "" {
		missing = append(missing, "project_id")
	}
	if key.ClientEmail == "" {
		missing = append(missing, "client_email")
	}
	if key.PrivateKey == "" {
		missing = append(missing, "private_key")
	}
	if len(missing) > 0 {
		return nil, errors.CredentialInvalid("missing " + strings.Join(missing, ", "))
	}

	return &Credential{
		ProjectID:    key.ProjectID,
		ClientEmail:  key.ClientEmail,
		PrivateKeyID: key.PrivateKeyID,
		Source:       source,
		Raw:          raw,
	}, nil
}
