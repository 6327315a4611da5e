package meta

import "os"

var Version = "0.2.0"

var pwd string

func Pwd() string {
	if pwd != "" {
		return pwd
	}
	var err error
	pwd, err = os.Getwd()
	if err != nil {
		panic(err)
	}
	return pwd
}
