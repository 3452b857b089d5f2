package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appservice "github.com/turtacn/claimctl/internal/application/service"
	"github.com/turtacn/claimctl/internal/domain/models"
	"github.com/turtacn/claimctl/internal/infrastructure/firebase/firebasetest"
	"github.com/turtacn/claimctl/pkg/constants"
	"github.com/turtacn/claimctl/pkg/errors"
)

const existingUID = "5Oe8NEmjBXa9uxK2Up2up4Jp2Sx2"

// fakeClaimService knows a fixed set of users.
type fakeClaimService struct {
	users map[string]models.CustomClaims
	calls []string
}

func (f *fakeClaimService) SetAdminClaim(ctx context.Context, uid string) (*models.ClaimOutcome, error) {
	f.calls = append(f.calls, uid)
	outcome := models.NewClaimOutcome(uid)
	if _, ok := f.users[uid]; !ok {
		err := errors.UserNotFound(uid, stderrors.New("no user record found for the given identifier"))
		outcome.Resolve(err)
		return outcome, err
	}
	f.users[uid] = models.AdminClaims()
	outcome.Resolve(nil)
	return outcome, nil
}

func (f *fakeClaimService) ShowClaims(ctx context.Context, uid string) (*models.ClaimRecord, error) {
	claims, ok := f.users[uid]
	if !ok {
		return nil, errors.UserNotFound(uid, nil)
	}
	return &models.ClaimRecord{UID: uid, Claims: claims}, nil
}

// blockingClaimService returns only when its context ends.
type blockingClaimService struct{}

func (blockingClaimService) SetAdminClaim(ctx context.Context, uid string) (*models.ClaimOutcome, error) {
	<-ctx.Done()
	outcome := models.NewClaimOutcome(uid)
	outcome.Resolve(ctx.Err())
	return outcome, ctx.Err()
}

func (blockingClaimService) ShowClaims(ctx context.Context, uid string) (*models.ClaimRecord, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type result struct {
	code   int
	stdout string
	stderr string
}

// isolate keeps developer config files and CLAIMCTL_* variables out of the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "CLAIMCTL_") || key == constants.EmulatorHostEnv {
			t.Setenv(key, "")
			require.NoError(t, os.Unsetenv(key))
		}
	}
}

func execute(t *testing.T, factory serviceFactory, args ...string) result {
	t.Helper()
	return executeContext(t, context.Background(), factory, args...)
}

func executeContext(t *testing.T, ctx context.Context, factory serviceFactory, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	opts := newRootOptions(&stdout, &stderr)
	if factory != nil {
		opts.newService = factory
	}
	code := run(ctx, opts, append(args, "--no-color", "--log-level", "error"))
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func fakeFactory(svc *fakeClaimService) serviceFactory {
	return func(ctx context.Context, rt *runtime) (appservice.ClaimAppService, error) {
		return svc, nil
	}
}

func TestSetAdmin_Success(t *testing.T) {
	isolate(t)
	svc := &fakeClaimService{users: map[string]models.CustomClaims{existingUID: nil}}

	res := execute(t, fakeFactory(svc), "claims", "set-admin", existingUID, "--credentials", "key.json")

	assert.Equal(t, constants.ExitSuccess, res.code)
	assert.Equal(t, "Successfully set admin claim for user: "+existingUID+"\n", res.stdout)
	assert.Empty(t, res.stderr)
	assert.True(t, svc.users[existingUID].IsAdmin())
}

func TestSetAdmin_UserNotFound(t *testing.T) {
	isolate(t)
	svc := &fakeClaimService{users: map[string]models.CustomClaims{existingUID: nil}}

	res := execute(t, fakeFactory(svc), "claims", "set-admin", "does-not-exist-uid", "--credentials", "key.json")

	assert.Equal(t, constants.ExitFailure, res.code)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "Error setting admin claim: ")
	assert.Contains(t, res.stderr, "does-not-exist-uid")
}

func TestSetAdmin_UIDFromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("CLAIMCTL_TARGET_UID", existingUID)
	svc := &fakeClaimService{users: map[string]models.CustomClaims{existingUID: nil}}

	res := execute(t, fakeFactory(svc), "claims", "set-admin", "--credentials", "key.json")

	assert.Equal(t, constants.ExitSuccess, res.code)
	assert.Equal(t, []string{existingUID}, svc.calls)
}

func TestSetAdmin_MissingUID(t *testing.T) {
	isolate(t)
	svc := &fakeClaimService{}

	res := execute(t, fakeFactory(svc), "claims", "set-admin", "--credentials", "key.json")

	assert.Equal(t, constants.ExitFailure, res.code)
	assert.Equal(t, "Error setting admin claim: missing required argument: uid\n", res.stderr)
	assert.Empty(t, svc.calls)
}

func TestSetAdmin_ConfigInvalid(t *testing.T) {
	isolate(t)
	svc := &fakeClaimService{}

	res := execute(t, fakeFactory(svc), "claims", "set-admin", existingUID)

	assert.Equal(t, constants.ExitFailure, res.code)
	assert.Contains(t, res.stderr, "Error setting admin claim: ")
	assert.Contains(t, res.stderr, "credential.path is required")
	assert.Empty(t, svc.calls)
}

func TestSetAdmin_CredentialFileMissing(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	metricsPath := filepath.Join(dir, "claimctl.prom")
	t.Setenv("CLAIMCTL_METRICS_TEXTFILE_PATH", metricsPath)

	res := execute(t, nil, "claims", "set-admin", existingUID, "--credentials", filepath.Join(dir, "missing.json"))

	assert.Equal(t, constants.ExitFailure, res.code)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "Error setting admin claim: failed to read credential from file")

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `claimctl_credential_loads_total{result="failure",source="file"} 1`)
	assert.Contains(t, string(data), `error_code="credential_unavailable"`)
}

func TestSetAdmin_CredentialFileInvalid(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	res := execute(t, nil, "claims", "set-admin", existingUID, "--credentials", path)

	assert.Equal(t, constants.ExitFailure, res.code)
	assert.Contains(t, res.stderr, "Error setting admin claim: invalid service account credential")
}

func TestSetAdmin_TooManyArgs(t *testing.T) {
	isolate(t)

	res := execute(t, fakeFactory(&fakeClaimService{}), "claims", "set-admin", "a", "b", "--credentials", "key.json")

	assert.Equal(t, constants.ExitFailure, res.code)
	assert.Contains(t, res.stderr, "Error setting admin claim: ")
}

func TestSetAdmin_AgainstEmulator(t *testing.T) {
	isolate(t)
	emu := firebasetest.NewEmulator(t, existingUID)
	t.Setenv(constants.EmulatorHostEnv, emu.Host())
	keyPath := firebasetest.WriteKeyFile(t)

	res := execute(t, nil, "claims", "set-admin", existingUID, "--credentials", keyPath)

	assert.Equal(t, constants.ExitSuccess, res.code)
	assert.Equal(t, "Successfully set admin claim for user: "+existingUID+"\n", res.stdout)
	assert.Empty(t, res.stderr)
	assert.JSONEq(t, `{"admin":true}`, emu.Claims(existingUID))
}

func TestSetAdmin_AgainstEmulator_UserNotFound(t *testing.T) {
	isolate(t)
	emu := firebasetest.NewEmulator(t, existingUID)
	t.Setenv(constants.EmulatorHostEnv, emu.Host())
	keyPath := firebasetest.WriteKeyFile(t)

	res := execute(t, nil, "claims", "set-admin", "does-not-exist-uid", "--credentials", keyPath)

	assert.Equal(t, constants.ExitFailure, res.code)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "Error setting admin claim: user does-not-exist-uid not found: ")
	assert.Contains(t, res.stderr, `"error_code":"user_not_found"`)
	assert.Contains(t, res.stderr, `"run_id":"`)
	assert.Empty(t, emu.Claims("does-not-exist-uid"))
}

func TestShow_AgainstEmulator(t *testing.T) {
	isolate(t)
	emu := firebasetest.NewEmulator(t)
	emu.SetClaims(existingUID, `{"admin":true}`)
	t.Setenv(constants.EmulatorHostEnv, emu.Host())

	res := execute(t, nil, "claims", "show", existingUID, "--credentials", firebasetest.WriteKeyFile(t))

	assert.Equal(t, constants.ExitSuccess, res.code)
	assert.JSONEq(t, `{"uid":"`+existingUID+`","custom_claims":{"admin":true}}`, res.stdout)
}

func TestSetAdmin_Timeout(t *testing.T) {
	isolate(t)
	t.Setenv("CLAIMCTL_FIREBASE_TIMEOUT", "50ms")
	factory := func(ctx context.Context, rt *runtime) (appservice.ClaimAppService, error) {
		return blockingClaimService{}, nil
	}

	start := time.Now()
	res := execute(t, factory, "claims", "set-admin", existingUID, "--credentials", "key.json")

	assert.Equal(t, constants.ExitFailure, res.code)
	assert.Equal(t, "Error setting admin claim: context deadline exceeded\n", res.stderr)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSetAdmin_Cancelled(t *testing.T) {
	isolate(t)
	factory := func(ctx context.Context, rt *runtime) (appservice.ClaimAppService, error) {
		return blockingClaimService{}, nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := executeContext(t, ctx, factory, "claims", "set-admin", existingUID, "--credentials", "key.json")

	assert.Equal(t, constants.ExitFailure, res.code)
	assert.Empty(t, res.stdout)
	assert.Equal(t, "Error setting admin claim: context canceled\n", res.stderr)
}

func TestShow(t *testing.T) {
	isolate(t)
	svc := &fakeClaimService{users: map[string]models.CustomClaims{existingUID: models.AdminClaims()}}

	res := execute(t, fakeFactory(svc), "claims", "show", existingUID, "--credentials", "key.json")

	assert.Equal(t, constants.ExitSuccess, res.code)
	assert.JSONEq(t, `{"uid":"`+existingUID+`","custom_claims":{"admin":true}}`, res.stdout)
}

func TestShow_UserNotFound(t *testing.T) {
	isolate(t)

	res := execute(t, fakeFactory(&fakeClaimService{}), "claims", "show", "does-not-exist-uid", "--credentials", "key.json")

	assert.Equal(t, constants.ExitFailure, res.code)
	assert.Contains(t, res.stderr, "Error reading claims: user does-not-exist-uid not found")
}

func TestVersion(t *testing.T) {
	isolate(t)

	res := execute(t, nil, "version")

	assert.Equal(t, constants.ExitSuccess, res.code)
	assert.Equal(t, "claimctl "+constants.Version+"\n", res.stdout)
}

func TestUnknownCommand(t *testing.T) {
	isolate(t)

	res := execute(t, nil, "grant")

	assert.Equal(t, constants.ExitFailure, res.code)
	assert.Contains(t, res.stderr, "Error: unknown command")
}

func TestPrinter(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, false)

	p.Success("Successfully set admin claim for user: %s", "u1")
	p.Error("Error setting admin claim: %v", stderrors.New("boom"))

	assert.Equal(t, "Successfully set admin claim for user: u1\n", out.String())
	assert.Equal(t, "Error setting admin claim: boom\n", errOut.String())
}
