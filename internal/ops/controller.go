package ops

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var (
	ErrUnknownService = errors.New("unknown service")
	ErrUnknownAction  = errors.New("unknown action")
)

const (
	ServiceRedis    = "redis"
	ServiceKafka    = "kafka"
	ServicePostgres = "postgres"
)

// DockerClient is the slice of the Docker Engine API the dashboard uses.
type DockerClient interface {
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerExecCreate(ctx context.Context, containerID string, options container.ExecOptions) (container.ExecCreateResponse, error)
	ContainerExecAttach(ctx context.Context, execID string, options container.ExecAttachOptions) (types.HijackedResponse, error)
}

// Controller starts, stops and probes the dependency containers backing the
// store. It is operator tooling: every call returns a human-readable log.
type Controller struct {
	logger     *zap.Logger
	docker     DockerClient
	redis      *redis.Client
	brokers    []string
	topic      string
	containers map[string]string // service name -> container name
}

func NewController(logger *zap.Logger, docker DockerClient, redisClient *redis.Client, brokers []string, topic string, containers map[string]string) *Controller {
	return &Controller{
		logger:     logger,
		docker:     docker,
		redis:      redisClient,
		brokers:    brokers,
		topic:      topic,
		containers: containers,
	}
}

// Control runs start/stop/status for one of the managed services and
// returns timestamped log lines for the dashboard.
func (c *Controller) Control(ctx context.Context, service, action string) ([]string, error) {
	name, ok := c.containers[service]
	if !ok {
		return []string{logLine("Unknown service: " + service)}, ErrUnknownService
	}

	var lines []string
	log := func(msg string) { lines = append(lines, logLine(msg)) }

	switch action {
	case "start":
		log(fmt.Sprintf("Starting container %s...", name))
		if err := c.docker.ContainerStart(ctx, name, container.StartOptions{}); err != nil {
			log(fmt.Sprintf("ERROR while start %s: %v", name, err))
			return lines, err
		}
		log("Container started.")
		return lines, nil

	case "stop":
		log(fmt.Sprintf("Stopping container %s...", name))
		if err := c.docker.ContainerStop(ctx, name, container.StopOptions{}); err != nil {
			log(fmt.Sprintf("ERROR while stop %s: %v", name, err))
			return lines, err
		}
		log("Container stopped.")
		return lines, nil

	case "status":
		return c.status(ctx, service, name, log, lines)

	default:
		return []string{logLine("Unknown action: " + action)}, ErrUnknownAction
	}
}

func (c *Controller) status(ctx context.Context, service, name string, log func(string), lines []string) ([]string, error) {
	switch service {
	case ServiceRedis:
		log("Checking Redis with PING...")
		if err := c.redis.Ping(ctx).Err(); err != nil {
			log(fmt.Sprintf("ERROR during status of redis: %v", err))
			return lines, err
		}
		log("Redis OK, ping=PONG")
		return lines, nil

	case ServiceKafka:
		log("Checking Kafka by dialing the broker...")
		conn, err := kafka.DialContext(ctx, "tcp", c.brokers[0])
		if err != nil {
			log(fmt.Sprintf("ERROR during status of kafka: %v", err))
			return lines, err
		}
		defer conn.Close()
		broker, err := conn.Controller()
		if err != nil {
			log(fmt.Sprintf("ERROR during status of kafka: %v", err))
			return lines, err
		}
		log(fmt.Sprintf("Kafka OK, controller=%s:%d", broker.Host, broker.Port))
		return lines, nil

	case ServicePostgres:
		log("Checking Postgres with pg_isready inside the container...")
		output, err := c.execInContainer(ctx, name, []string{"pg_isready"})
		if err != nil {
			log(fmt.Sprintf("ERROR during status of postgres: %v", err))
			return lines, err
		}
		log(output)
		return lines, nil
	}

	return lines, ErrUnknownService
}

func (c *Controller) execInContainer(ctx context.Context, name string, cmd []string) (string, error) {
	exec, err := c.docker.ContainerExecCreate(ctx, name, container.ExecOptions{
		Cmd:          cmd,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return "", fmt.Errorf("exec create: %w", err)
	}

	attach, err := c.docker.ContainerExecAttach(ctx, exec.ID, container.ExecAttachOptions{})
	if err != nil {
		return "", fmt.Errorf("exec attach: %w", err)
	}
	defer attach.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, attach.Reader); err != nil {
		return "", fmt.Errorf("read exec output: %w", err)
	}
	if stderr.Len() > 0 {
		return stdout.String() + stderr.String(), nil
	}
	return stdout.String(), nil
}

// RedisStatus reports whether the cart store answers a PING.
func (c *Controller) RedisStatus(ctx context.Context) error {
	return c.redis.Ping(ctx).Err()
}

type QueueStatus struct {
	Topic    string `json:"queue"`
	Messages int64  `json:"messages"`
}

// QueueStatusReport counts messages still sitting in partition 0 of the
// orders topic, mirroring a queue-depth check.
func (c *Controller) QueueStatusReport(ctx context.Context) (QueueStatus, error) {
	conn, err := kafka.DialLeader(ctx, "tcp", c.brokers[0], c.topic, 0)
	if err != nil {
		return QueueStatus{}, fmt.Errorf("dial leader: %w", err)
	}
	defer conn.Close()

	first, err := conn.ReadFirstOffset()
	if err != nil {
		return QueueStatus{}, fmt.Errorf("read first offset: %w", err)
	}
	last, err := conn.ReadLastOffset()
	if err != nil {
		return QueueStatus{}, fmt.Errorf("read last offset: %w", err)
	}

	return QueueStatus{Topic: c.topic, Messages: last - first}, nil
}

func logLine(msg string) string {
	return fmt.Sprintf("[%s] %s", time.Now().UTC().Format(time.RFC3339), msg)
}
