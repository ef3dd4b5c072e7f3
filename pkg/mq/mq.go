// Package mq 封装RabbitMQ的发布与消费
//
// 拓扑：
//
//	Publisher ──routing key──▶ Exchange(topic) ──binding──▶ Queue ──▶ Consumer
//
// 约定：
// 1. 消息体统一为JSON，DeliveryMode=Persistent
// 2. 消费端手动Ack；处理失败首次Nack重新入队，重投递后仍失败则丢弃（避免毒消息死循环）
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
)

// Handler 消息处理函数，返回error表示处理失败
type Handler func(ctx context.Context, body []byte) error

// Publisher 消息发布者
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewPublisher 连接RabbitMQ并声明Exchange
func NewPublisher(url, exchange, exchangeType string) (*Publisher, error) {
	conn, channel, err := dial(url)
	if err != nil {
		return nil, err
	}

	if err := declareExchange(channel, exchange, exchangeType); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	logger.L().Info("mq publisher ready", zap.String("exchange", exchange), zap.String("type", exchangeType))

	return &Publisher{conn: conn, channel: channel, exchange: exchange}, nil
}

// Publish 序列化并发布消息
func (p *Publisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("消息序列化失败: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("发布消息失败: %w", err)
	}

	metrics.IncCounterVec(metrics.MessagesPublishedTotal, map[string]string{
		"exchange":    p.exchange,
		"routing_key": routingKey,
	})
	logger.L().Debug("mq message published", zap.String("routing_key", routingKey), zap.Int("bytes", len(body)))
	return nil
}

// Close 关闭Channel和连接
func (p *Publisher) Close() error {
	return closeAll(p.channel, p.conn)
}

// Consumer 消息消费者
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// NewConsumer 声明Exchange、Queue并按routingKeys绑定
// topic exchange支持通配符：* 匹配一个单词，# 匹配零个或多个单词
func NewConsumer(url, exchange, exchangeType, queue string, routingKeys []string) (*Consumer, error) {
	conn, channel, err := dial(url)
	if err != nil {
		return nil, err
	}

	fail := func(err error) (*Consumer, error) {
		channel.Close()
		conn.Close()
		return nil, err
	}

	if err := declareExchange(channel, exchange, exchangeType); err != nil {
		return fail(err)
	}

	q, err := channel.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return fail(fmt.Errorf("声明Queue失败: %w", err))
	}

	for _, key := range routingKeys {
		if err := channel.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			return fail(fmt.Errorf("绑定Queue失败: %w", err))
		}
	}

	logger.L().Info("mq consumer ready", zap.String("queue", q.Name), zap.Strings("routing_keys", routingKeys))

	return &Consumer{conn: conn, channel: channel, queue: q.Name}, nil
}

// Consume 阻塞消费直到ctx取消或Channel关闭
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	// PrefetchCount=1：处理完一条再取下一条，多消费者时平均分配
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("设置Qos失败: %w", err)
	}

	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("开始消费失败: %w", err)
	}

	logger.L().Info("mq consuming", zap.String("queue", c.queue))

	for {
		select {
		case <-ctx.Done():
			logger.L().Info("mq consumer stopped", zap.String("queue", c.queue))
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("消息Channel已关闭")
			}
			handleDelivery(ctx, c.queue, &msg, msg.Redelivered, msg.Body, handler)
		}
	}
}

// Close 关闭Channel和连接
func (c *Consumer) Close() error {
	return closeAll(c.channel, c.conn)
}

// acknowledger amqp.Delivery的确认方法子集
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// handleDelivery 执行handler并确认消息
func handleDelivery(ctx context.Context, queue string, d acknowledger, redelivered bool, body []byte, handler Handler) {
	err := handler(ctx, body)
	if err == nil {
		_ = d.Ack(false)
		metrics.IncCounterVec(metrics.MessagesConsumedTotal, map[string]string{"queue": queue, "result": "ack"})
		return
	}

	requeue := !redelivered
	_ = d.Nack(false, requeue)

	result := "requeue"
	if !requeue {
		result = "dropped"
	}
	metrics.IncCounterVec(metrics.MessagesConsumedTotal, map[string]string{"queue": queue, "result": result})
	logger.L().Warn("mq message handling failed",
		zap.String("queue", queue),
		zap.Bool("requeue", requeue),
		zap.Error(err),
	)
}

func dial(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("创建Channel失败: %w", err)
	}
	return conn, channel, nil
}

func declareExchange(channel *amqp.Channel, exchange, exchangeType string) error {
	// durable=true, autoDelete=false, internal=false, noWait=false
	if err := channel.ExchangeDeclare(exchange, exchangeType, true, false, false, false, nil); err != nil {
		return fmt.Errorf("声明Exchange失败: %w", err)
	}
	return nil
}

func closeAll(channel *amqp.Channel, conn *amqp.Connection) error {
	if channel != nil {
		channel.Close()
	}
	if conn != nil {
		return conn.Close()
	}
	return nil
}
