package catalog

import "github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"

// DBExecutor общий интерфейс для *sql.DB, *sql.Tx и их обёрток с метриками
type DBExecutor = dbmetrics.DBExecutor
