package main

import "github.com/UT-B-VIMAL/hrms-backend/cmd"

func main() {
	cmd.Execute()
}
