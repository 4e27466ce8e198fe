package config

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// JWTSecretKey is the object holding the JWT secret in the backup bucket
const JWTSecretKey = "config/jwt_secret.txt"

// fetchJWTSecret fetches the JWT secret from the backup bucket for disaster recovery
func fetchJWTSecret(c *Config) string {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.Backup.AccessKey,
			c.Backup.SecretKey,
			"",
		)),
		awsconfig.WithRegion(c.Backup.Region),
	)
	if err != nil {
		log.Printf("[Config] Failed to configure backup client: %v", err)
		return ""
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if c.Backup.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Backup.Endpoint)
		}
	})

	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.Backup.Bucket),
		Key:    aws.String(JWTSecretKey),
	})
	if err != nil {
		log.Printf("[Config] Failed to fetch JWT secret: %v", err)
		return ""
	}
	defer result.Body.Close()

	secret, err := io.ReadAll(result.Body)
	if err != nil {
		log.Printf("[Config] Failed to read JWT secret: %v", err)
		return ""
	}
	log.Printf("[Config] JWT secret loaded from backup bucket")
	return strings.TrimSpace(string(secret))
}
