package idutil

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

var (
	nodeOnce sync.Once
	node     *snowflake.Node
)

// NewID returns a random uuid, the id format of remote action rows.
func NewID() string {
	return uuid.NewString()
}

// NewSnowflakeID returns a time-ordered id for local-only records such as
// notifications and posts.
func NewSnowflakeID() string {
	nodeOnce.Do(func() {
		var err error
		node, err = snowflake.NewNode(1)
		if err != nil {
			panic(err)
		}
	})

	return node.Generate().String()
}
