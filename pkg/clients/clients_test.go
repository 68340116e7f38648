package clients

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicReadPolicy(t *testing.T) {
	var policy struct {
		Statement []struct {
			Effect   string
			Action   []string
			Resource []string
		}
	}
	require.NoError(t, json.Unmarshal([]byte(publicReadPolicy("product-images")), &policy))
	require.Len(t, policy.Statement, 1)
	assert.Equal(t, "Allow", policy.Statement[0].Effect)
	assert.Equal(t, []string{"s3:GetObject"}, policy.Statement[0].Action)
	assert.Equal(t, []string{"arn:aws:s3:::product-images/*"}, policy.Statement[0].Resource)
}

func TestNewMinIOClient(t *testing.T) {
	client, err := NewMinIOClient(&cfg.MinIOCfg{MinioEndpoint: "localhost:9000", MinioRootUser: "u", MinioRootPassword: "p"})
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", client.EndpointURL().Host)

	_, err = NewMinIOClient(&cfg.MinIOCfg{MinioEndpoint: "http://localhost:9000/path"})
	assert.Error(t, err)
}

func TestConnectRedis_Unreachable(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := ConnectRedis(ctx, &cfg.RedisCfg{Addr: addr, DialTimeout: 40 * time.Millisecond, Timeout: 40 * time.Millisecond}, logger.NewNop())
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), addr)
}
