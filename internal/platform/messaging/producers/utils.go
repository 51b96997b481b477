package producers

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

const topicCheckAttempts = 5

// ensureTopic creates topic on the cluster controller unless it already has
// partitions. Reading partitions is retried while the broker starts up.
func ensureTopic(brokers, topic string, numPartitions, replicationFactor int, log *slog.Logger) error {
	conn, err := kafka.Dial("tcp", brokers)
	if err != nil {
		return fmt.Errorf("failed to dial kafka: %w", err)
	}
	defer conn.Close()

	var partitions []kafka.Partition
	for attempt := 1; attempt <= topicCheckAttempts; attempt++ {
		partitions, err = conn.ReadPartitions(topic)
		if err == nil {
			break
		}
		log.Warn("Failed to read partitions, retrying", "topic", topic, "attempt", attempt, "error", err)
		time.Sleep(time.Duration(attempt) * time.Second)
	}
	if len(partitions) > 0 {
		log.Info("Kafka topic already exists", "topic", topic, "partitions", len(partitions))
		return nil
	}

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("failed to find kafka controller: %w", err)
	}
	controllerConn, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return fmt.Errorf("failed to dial kafka controller: %w", err)
	}
	defer controllerConn.Close()

	err = controllerConn.CreateTopics(topicConfig(topic, numPartitions, replicationFactor))
	if err != nil {
		return fmt.Errorf("failed to create kafka topic %s: %w", topic, err)
	}
	log.Info("Created Kafka topic", "topic", topic)
	return nil
}

// topicConfig defaults partitions and replication to one broker's worth
func topicConfig(topic string, numPartitions, replicationFactor int) kafka.TopicConfig {
	cfg := kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     numPartitions,
		ReplicationFactor: replicationFactor,
	}
	if cfg.NumPartitions <= 0 {
		cfg.NumPartitions = 1
	}
	if cfg.ReplicationFactor <= 0 {
		cfg.ReplicationFactor = 1
	}
	return cfg
}

func toHeaders(values map[string]string) []kafka.Header {
	if len(values) == 0 {
		return nil
	}
	headers := make([]kafka.Header, 0, len(values))
	for k, v := range values {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return headers
}
