package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var db *gorm.DB

var autoMigrateModels []interface{}

// RegisterAutoMigrateModels 注册需要自动迁移的模型，在各models文件的init()中调用
func RegisterAutoMigrateModels(models ...interface{}) {
	autoMigrateModels = append(autoMigrateModels, models...)
}

// Init 初始化数据库连接并执行自动迁移
func Init(driver, dsn string) error {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite", "":
		dialector = sqlite.Open(dsn)
	default:
		return fmt.Errorf("unsupported database driver: %s", driver)
	}

	var err error
	db, err = gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(autoMigrateModels...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}

	return nil
}

// SetDatabase 注入已有的数据库连接（测试或宿主系统复用连接时使用）
func SetDatabase(d *gorm.DB) error {
	db = d
	return db.AutoMigrate(autoMigrateModels...)
}

func Database() *gorm.DB {
	return db
}
