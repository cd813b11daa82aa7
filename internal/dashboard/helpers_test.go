package dashboard_test

import "github.com/bwmarrin/snowflake"

func snowflakeID(id int64) snowflake.ID { return snowflake.ID(id) }
