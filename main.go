package main

import "github.com/PsiACE/psiace/cmd"

func main() {
	cmd.Execute()
}
