package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"rakshak.com/rakshak/security"
)

// Mints a device token for manual API testing. The signing secret
// comes from RAKSHAK_JWT_SECRET (base64).
func main() {
	deviceID := flag.Int64("device", 1, "device id")
	username := flag.String("username", "mdt-test", "device username")
	ttl := flag.Int64("ttl", 3600, "token lifetime in seconds")
	flag.Parse()

	secret := os.Getenv("RAKSHAK_JWT_SECRET")
	if secret == "" {
		log.Fatal("RAKSHAK_JWT_SECRET is not set")
	}

	token, err := security.CreateDeviceToken(&security.DeviceIdentity{
		Id:       *deviceID,
		Username: *username,
	}, secret, *ttl)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(token)
}
