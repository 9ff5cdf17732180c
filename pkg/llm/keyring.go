// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package llm

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/awnumar/memguard"
	"golang.org/x/sys/unix"
)

// Secret names known to the keyring.
const (
	SecretOpenAIAPIKey    = "openai_api_key"
	SecretAnthropicAPIKey = "anthropic_api_key"
)

// MinMlockLimitKB is the minimum mlock limit expected for sealed key
// storage. API keys are tiny; this is the floor under which memguard
// allocations start failing in practice.
const MinMlockLimitKB = 64

var (
	// memguardInitOnce ensures memguard initialization happens only once.
	memguardInitOnce sync.Once

	// mlockSufficient is set during initialization to indicate if secure
	// memory is available.
	mlockSufficient bool

	// currentMlockLimitKB stores the current mlock limit for logging.
	currentMlockLimitKB int64
)

// Keyring stores backend API keys in sealed memory.
//
// # Description
//
// Keys are loaded once (environment variable first, container secret
// file second) and held in memguard enclaves: encrypted at rest in
// process memory and only decrypted into an mlocked buffer for the
// moment a request needs the plaintext. Purge wipes everything on
// shutdown.
//
// # Thread Safety
//
// Safe for concurrent use.
//
// # Limitations
//
//   - Plaintext returned by Reveal is an ordinary Go string; callers
//     must not retain it beyond the request.
type Keyring struct {
	mu      sync.RWMutex
	secrets map[string]*memguard.Enclave
}

// NewKeyring creates an empty keyring and initializes memguard.
func NewKeyring() *Keyring {
	initMemguard()
	return &Keyring{secrets: make(map[string]*memguard.Enclave)}
}

// LoadSecret resolves a secret from the environment variable or, failing
// that, the secret file, and seals it into the keyring.
//
// Inputs:
//
//	name - Keyring name for the secret (e.g. SecretOpenAIAPIKey).
//	envVar - Environment variable to check first.
//	secretPath - Container secret file checked second.
//
// Outputs:
//
//	error - Non-nil if neither source yields a value.
func (k *Keyring) LoadSecret(name, envVar, secretPath string) error {
	value := os.Getenv(envVar)

	if value == "" && secretPath != "" {
		if content, err := os.ReadFile(secretPath); err == nil {
			value = strings.TrimSpace(string(content))
			slog.Info("Read secret from container secrets", "secret", name)
		}
	}

	if value == "" {
		return fmt.Errorf("secret %s not found: set %s or provide %s", name, envVar, secretPath)
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.secrets[name] = memguard.NewEnclave([]byte(value))
	return nil
}

// Enclave returns the sealed secret for backends that open it per
// request.
func (k *Keyring) Enclave(name string) (*memguard.Enclave, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	enclave, ok := k.secrets[name]
	return enclave, ok
}

// Reveal opens the sealed secret and returns a plaintext copy.
func (k *Keyring) Reveal(name string) (string, error) {
	enclave, ok := k.Enclave(name)
	if !ok {
		return "", fmt.Errorf("secret %s not loaded", name)
	}

	buf, err := enclave.Open()
	if err != nil {
		return "", fmt.Errorf("opening secret %s: %w", name, err)
	}
	defer buf.Destroy()

	// LockedBuffer.String shares the sealed memory, which Destroy wipes.
	// The []byte conversion copies, so the returned string survives.
	return string(buf.Bytes()), nil
}

// Purge wipes all sealed memory. Call during graceful shutdown.
func (k *Keyring) Purge() {
	memguard.Purge()
	slog.Info("Purged sealed key memory")
}

// initMemguard initializes the memguard library and checks mlock limits.
// Safe to call multiple times.
func initMemguard() {
	memguardInitOnce.Do(func() {
		memguard.CatchInterrupt()
		mlockSufficient, currentMlockLimitKB = checkMlockLimit()
		if mlockSufficient {
			slog.Info("Sealed key storage initialized",
				"mlock_limit_kb", currentMlockLimitKB,
				"required_kb", MinMlockLimitKB,
			)
		} else {
			slog.Warn("mlock limit is low; sealed key storage may fail under load",
				"current_limit_kb", currentMlockLimitKB,
				"required_kb", MinMlockLimitKB,
			)
		}
	})
}

// checkMlockLimit queries the kernel for the mlock resource limit.
//
// Outputs:
//
//	bool - True if the limit is sufficient (>= MinMlockLimitKB).
//	int64 - Current limit in kilobytes (-1 if unlimited).
func checkMlockLimit() (bool, int64) {
	var rlimit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_MEMLOCK, &rlimit); err != nil {
		slog.Warn("Could not determine mlock limit", "error", err)
		return true, -1
	}

	if rlimit.Cur == unix.RLIM_INFINITY {
		return true, -1
	}

	limitKB := int64(rlimit.Cur / 1024)
	return limitKB >= MinMlockLimitKB, limitKB
}
