package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"CarJournal/CronJobs"
	"CarJournal/FiberConfig"
	"CarJournal/Journal"
	"CarJournal/Models"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment defaults")
	}

	Models.Connect()

	recordsFile := os.Getenv("RECORDS_FILE")
	if recordsFile == "" {
		recordsFile = "car_records.json"
	}
	store := Journal.OpenRecordStore(recordsFile)
	if store.Recovered() {
		log.Printf("WARNING: %s was unreadable and has been reset to an empty journal", recordsFile)
	}
	service := Journal.NewRecordService(store)

	sweeper := CronJobs.NewStatusSweeper(service, true)
	if err := sweeper.Start(); err != nil {
		log.Printf("Failed to start status sweeper: %v", err)
	}
	defer sweeper.Stop()

	FiberConfig.FiberConfig(service)
}
