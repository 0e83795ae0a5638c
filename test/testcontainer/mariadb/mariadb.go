package mariadb

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mariadb"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	mariadbContainerImage = "docker.io/mariadb:11.4"
	mariadbContainerPort  = "3306/tcp"

	MainDbName     = "main-db"
	MainDbUser     = "test"
	MainDbPassword = "password"
)

// MariaDBContainer represents the mariadb container type used in the module.
type MariaDBContainer struct {
	Container  *mariadb.MariaDBContainer
	MappedPort nat.Port
	Host       string
	DbName     string
	DbUser     string
	DbPassword string
}

// StartMariaDBContainer - start a mariadb container and wait until it
// accepts connections.
func StartMariaDBContainer(ctx context.Context, t *testing.T) *MariaDBContainer {
	container, err := mariadb.Run(ctx,
		mariadbContainerImage,
		mariadb.WithDatabase(MainDbName),
		mariadb.WithUsername(MainDbUser),
		mariadb.WithPassword(MainDbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort(mariadbContainerPort).
				WithStartupTimeout(60*time.Second),
		),
	)

	require.NoError(t, err)
	require.NotNil(t, container)

	mappedPort, err := container.MappedPort(ctx, mariadbContainerPort)
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	log.Printf("MariaDB running at %s:%s", host, mappedPort.Port())

	return &MariaDBContainer{
		Container:  container,
		MappedPort: mappedPort,
		Host:       host,
		DbName:     MainDbName,
		DbUser:     MainDbUser,
		DbPassword: MainDbPassword,
	}
}

// ConnectionParams - the opaque params map for connecting to the
// container.
func (c *MariaDBContainer) ConnectionParams() map[string]any {
	return map[string]any{
		"host":     c.Host,
		"port":     c.MappedPort.Port(),
		"user":     c.DbUser,
		"password": c.DbPassword,
		"db":       c.DbName,
	}
}

// Terminate - stop and remove the container.
func (c *MariaDBContainer) Terminate(ctx context.Context, t *testing.T) {
	require.NoError(t, c.Container.Terminate(ctx))
}
