package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// .env不存在时忽略
	_ = godotenv.Load()
	Execute()
}
