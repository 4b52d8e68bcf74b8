package main

import (
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/cmd"
)

func main() {
	cmd.Execute()
}
