package db

import (
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"

	"github.com/yeisme/hazopvault/pkg/configs"
)

func init() {
	register(postgres.Open, configs.PostgreSQL, configs.Postgres, configs.Pg)
	register(mysql.Open, configs.MySQL, configs.MariaDB)
}
