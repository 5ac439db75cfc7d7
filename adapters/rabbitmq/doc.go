/*
Package rabbitmq provides a RabbitMQ exporter for the messenger.
It maps exports to AMQP publishes, includes an auto-reconnect publisher,
and supports optional header propagation via a message.HeaderPropagator.
*/
package rabbitmq
