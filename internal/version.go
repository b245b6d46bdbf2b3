package internal

// Version is the current ankivoice version
const Version = "1.1.0"
