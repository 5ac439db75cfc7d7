/*
Package messenger provides an in-process, type-keyed publish/subscribe registry.
Handlers subscribe to a message type and receive every value of that exact type
published afterwards, synchronously and in subscription order.
*/
package messenger
