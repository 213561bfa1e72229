package events

var NewKafkaPublisherWithWriter = newKafkaPublisherWithWriter

type MessageWriter = messageWriter
