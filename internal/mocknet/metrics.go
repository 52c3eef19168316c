package mocknet

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// TasksCreated counts tasks accepted by the stub node.
var TasksCreated = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "chorus",
	Subsystem: "mocknet",
	Name:      "tasks_created_total",
	Help:      "Total tasks accepted by the stub compute node.",
})

// TasksFinished counts tasks that reached the Finished phase.
var TasksFinished = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "chorus",
	Subsystem: "mocknet",
	Name:      "tasks_finished_total",
	Help:      "Total tasks the stub drove to the Finished phase.",
})

// StatusPolls counts status queries served.
var StatusPolls = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "chorus",
	Subsystem: "mocknet",
	Name:      "status_polls_total",
	Help:      "Total status queries served.",
})
