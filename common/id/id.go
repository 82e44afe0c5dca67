package id

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init sets up the process-wide snowflake node. Each binary uses its own
// node id (server 1, worker 2, dispatchctl 3).
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New returns a time-ordered unique id for questions, users and responses.
func New() int64 {
	return node.Generate().Int64()
}
