// Package clock produces the simulation clock consumed by the simulator.
//
// A clock is a receive-only channel of Event values. Two sources exist: the
// in-process HeartBeat, which can also announce each beat to other processes
// through a TimePublisher such as KafkaPublisher, and the KafkaSubscriber,
// which follows a clock published elsewhere.
//
// Clock messages on the wire are JSON objects of the form
//
//	{"moment": "2018-07-30T08:12:00Z"}
package clock
