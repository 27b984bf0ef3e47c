// Package local runs the primary sentence-embedding model from a directory
// on disk.
//
// The directory holds a transformer exported to ONNX together with its
// HuggingFace tokenizer:
//
//	config.json     model configuration (hidden_size)
//	tokenizer.json  HuggingFace fast-tokenizer definition
//	model.onnx      exported encoder
//
// Inference goes through ONNX Runtime. Token embeddings are mean-pooled over
// the attention mask and L2-normalized, matching sentence-transformers
// pooling for the fine-tuned model.
package local
