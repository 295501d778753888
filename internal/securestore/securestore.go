package securestore

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"rebatescout/internal/model"
	"rebatescout/internal/storage"
)

const (
	// AssessmentKey is the storage key for the persisted envelope.
	AssessmentKey = "smartHomeSavingsAssessment"

	encryptionKeyName = "smart-home-savings-key"

	// Retention is the data-retention window for saved assessments.
	Retention = 7 * 24 * time.Hour

	nonceSize = 12
	keySize   = 32
)

// purgePrefixes are the key families PurgeExpired scans.
var purgePrefixes = []string{"smart-home-", "energy-assessment-"}

// Store persists assessment envelopes through a KV with an AES-GCM-256
// wrapper. The key is generated on first use and stored, JWK-exported, in
// the same KV as the ciphertext: this guards against casual inspection and
// enforces the retention policy, it is not a trust boundary.
type Store struct {
	kv    storage.KV
	debug bool
	now   func() time.Time
}

// New creates a Store. debug enables diagnostics for discarded records.
func New(kv storage.KV, debug bool) *Store {
	return &Store{kv: kv, debug: debug, now: time.Now}
}

// Save serializes and encrypts the answers and step under AssessmentKey.
// If encryption fails the envelope is written unencrypted instead, so a
// broken crypto path never blocks the user; fallback reports that case.
func (s *Store) Save(ctx context.Context, data model.AnswerSet, step int) (fallback bool, err error) {
	now := s.now()
	env := model.Envelope{
		Data:      data,
		Step:      step,
		Timestamp: now,
		ExpiresAt: now.Add(Retention).UnixMilli(),
	}
	plain, err := json.Marshal(env)
	if err != nil {
		return false, fmt.Errorf("marshal envelope: %w", err)
	}

	sealed, err := s.encrypt(ctx, plain)
	if err != nil {
		if s.debug {
			log.Printf("securestore: encryption failed, writing plain envelope: %v", err)
		}
		return true, s.kv.Set(ctx, AssessmentKey, string(plain), Retention)
	}
	return false, s.kv.Set(ctx, AssessmentKey, sealed, Retention)
}

// Load reads the envelope back. A missing, expired, corrupted or
// foreign-format record yields (nil, nil); unreadable and expired records
// are deleted so the next session starts fresh.
func (s *Store) Load(ctx context.Context) (*model.Envelope, error) {
	raw, ok, err := s.kv.Get(ctx, AssessmentKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var env model.Envelope
	if strings.HasPrefix(strings.TrimSpace(raw), "{") {
		// Plain-JSON record from the unencrypted fallback path.
		err = json.Unmarshal([]byte(raw), &env)
	} else {
		err = s.decrypt(ctx, raw, &env)
	}
	if err != nil {
		if s.debug {
			log.Printf("securestore: discarding unreadable envelope: %v", err)
		}
		return nil, s.kv.Delete(ctx, AssessmentKey)
	}
	if env.Expired(s.now()) {
		return nil, s.kv.Delete(ctx, AssessmentKey)
	}
	return &env, nil
}

// Clear deletes the persisted envelope.
func (s *Store) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, AssessmentKey)
}

// Cleanup removes the envelope and the encryption key (forcing regeneration
// on next use), then purges expired records under the recognized prefixes.
func (s *Store) Cleanup(ctx context.Context) error {
	if err := s.kv.Delete(ctx, AssessmentKey); err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, encryptionKeyName); err != nil {
		return err
	}
	return s.PurgeExpired(ctx)
}

// PurgeExpired scans the recognized key prefixes and deletes records whose
// expiresAt has passed. Records that do not parse are deleted outright.
func (s *Store) PurgeExpired(ctx context.Context) error {
	nowMs := s.now().UnixMilli()
	for _, prefix := range purgePrefixes {
		keys, err := s.kv.Keys(ctx, prefix)
		if err != nil {
			return err
		}
		for _, key := range keys {
			raw, ok, err := s.kv.Get(ctx, key)
			if err != nil || !ok {
				continue
			}
			var record struct {
				ExpiresAt int64 `json:"expiresAt"`
			}
			if err := json.Unmarshal([]byte(raw), &record); err != nil {
				s.kv.Delete(ctx, key)
				continue
			}
			if record.ExpiresAt > 0 && nowMs > record.ExpiresAt {
				s.kv.Delete(ctx, key)
			}
		}
	}
	return nil
}

// jwk is the exported form of the AES key, mirroring a Web Crypto export.
type jwk struct {
	Kty    string   `json:"kty"`
	K      string   `json:"k"`
	Alg    string   `json:"alg"`
	Ext    bool     `json:"ext"`
	KeyOps []string `json:"key_ops"`
}

// encryptionKey returns the stored key, regenerating it when missing or
// unimportable.
func (s *Store) encryptionKey(ctx context.Context) ([]byte, error) {
	raw, ok, err := s.kv.Get(ctx, encryptionKeyName)
	if err == nil && ok {
		var exported jwk
		if err := json.Unmarshal([]byte(raw), &exported); err == nil {
			key, err := base64.RawURLEncoding.DecodeString(exported.K)
			if err == nil && len(key) == keySize {
				return key, nil
			}
		}
		if s.debug {
			log.Printf("securestore: stored key unimportable, generating new one")
		}
	}

	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("keygen: %w", err)
	}
	exported, err := json.Marshal(jwk{
		Kty:    "oct",
		K:      base64.RawURLEncoding.EncodeToString(key),
		Alg:    "A256GCM",
		Ext:    true,
		KeyOps: []string{"encrypt", "decrypt"},
	})
	if err != nil {
		return nil, err
	}
	if err := s.kv.Set(ctx, encryptionKeyName, string(exported), 0); err != nil {
		return nil, fmt.Errorf("persist key: %w", err)
	}
	return key, nil
}

func (s *Store) encrypt(ctx context.Context, plaintext []byte) (string, error) {
	key, err := s.encryptionKey(ctx)
	if err != nil {
		return "", err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	combined := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(combined), nil
}

func (s *Store) decrypt(ctx context.Context, encoded string, out interface{}) error {
	key, err := s.encryptionKey(ctx)
	if err != nil {
		return err
	}
	combined, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("base64 decode: %w", err)
	}
	if len(combined) < nonceSize {
		return fmt.Errorf("ciphertext too short")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return err
	}
	plain, err := gcm.Open(nil, combined[:nonceSize], combined[nonceSize:], nil)
	if err != nil {
		return fmt.Errorf("decrypt: %w", err)
	}
	return json.Unmarshal(plain, out)
}
