package storage

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/pbkdf2"
)

// Encrypted object layout: magic(8) + salt(16) + nonce(12) + ciphertext.
const (
	gcmMagic   = "TBGCM001"
	saltLen    = 16
	nonceLen   = 12
	pbkdf2Iter = 100_000
)

// S3 stores results in a bucket. When a passphrase is set, objects are
// AES-GCM encrypted with a PBKDF2-derived key before upload.
type S3 struct {
	client     *s3.Client
	uploader   *manager.Uploader
	bucket     string
	prefix     string
	passphrase string
}

// NewS3 builds the backend from the default AWS config chain.
func NewS3(ctx context.Context, bucket, prefix, passphrase string) (*S3, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	cli := s3.NewFromConfig(cfg)
	return &S3{
		client:     cli,
		uploader:   manager.NewUploader(cli),
		bucket:     bucket,
		prefix:     prefix,
		passphrase: passphrase,
	}, nil
}

func (s *S3) objectKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

func (s *S3) Put(ctx context.Context, key string, data []byte, contentType string) error {
	payload := data
	if s.passphrase != "" {
		enc, err := encryptGCM(data, s.passphrase)
		if err != nil {
			return fmt.Errorf("encrypt result: %w", err)
		}
		payload = enc
		contentType = "application/octet-stream"
	}
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 upload: %w", err)
	}
	log.Debug().Str("bucket", s.bucket).Str("key", key).Int("size", len(payload)).Msg("stored result in s3")
	return nil
}

func (s *S3) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 download: %w", err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3 object: %w", err)
	}
	if len(data) >= len(gcmMagic) && string(data[:len(gcmMagic)]) == gcmMagic {
		if s.passphrase == "" {
			return nil, fmt.Errorf("object %s is encrypted but no passphrase is configured", key)
		}
		return decryptGCM(data, s.passphrase)
	}
	return data, nil
}

func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	return err
}

func deriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iter, 32, sha256.New)
}

func encryptGCM(plain []byte, passphrase string) ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	nonce := make([]byte, nonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(deriveKey(passphrase, salt))
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(gcmMagic)+saltLen+nonceLen+len(plain)+gcm.Overhead())
	out = append(out, gcmMagic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plain, nil), nil
}

func decryptGCM(data []byte, passphrase string) ([]byte, error) {
	header := len(gcmMagic) + saltLen + nonceLen
	if len(data) < header {
		return nil, fmt.Errorf("encrypted object too short: %d bytes", len(data))
	}
	salt := data[len(gcmMagic) : len(gcmMagic)+saltLen]
	nonce := data[len(gcmMagic)+saltLen : header]

	block, err := aes.NewCipher(deriveKey(passphrase, salt))
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	plain, err := gcm.Open(nil, nonce, data[header:], nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt failed: %w", err)
	}
	return plain, nil
}
