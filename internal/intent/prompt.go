package intent

// extractionSystem frames the model as the intent analyzer. Kept separate
// from the per-request prompt so the cacheable part stays stable.
const extractionSystem = `You are the intent analyzer of a smart home assistant. You split user requests into independent intents and capture the modifiers that change how each intent should be carried out. You output only JSON.`

// extractionPrompt is the prompt template for intent extraction.
const extractionPrompt = `Analyze the user's smart home request.

User input: %s

Task 1: Split into separate intents
- One intent = one request, feeling, or fact
- Keep all details: what, how, when, why, where
- If "and" connects independent requests, split them ("I'm hungry and tired" = two separate feelings)

Task 2: Extract key modifiers per intent
Find words that specify HOW, WHEN, WHERE, HOW MUCH. These are easy to miss. Use these keys:
- "time": "at 10pm", "tomorrow", "this afternoon"
- "duration": "for 30 minutes", "until tonight"
- "location": "in the bedroom", "in the living room"
- "manner": "gradually", "slowly", "quietly", "immediately"
- "degree": "very bright", "slightly", "dim", "loud"
- "quantity": "all", "some", "half"
- "negation": "no music", "don't", "without"

Task 3: Suggest a device per intent
Pick from: clock (time, alarms, timers, stopwatch), calendar (schedule, appointments), search_engine (weather, recipes, general information), tv_display (show content on screen), fridge (food inventory), lighting (lights, brightness, scenes), thermostat (temperature, climate), audio_system (music, volume).
Use an empty string when no single device clearly fits (feelings, moods).

Examples:

Input: "I want the lights to dim gradually starting at 10pm"
{
  "intents": [
    {"description": "I want the lights to dim gradually starting at 10pm", "device_type": "lighting", "modifiers": {"manner": "gradually", "time": "starting at 10pm", "degree": "dim"}}
  ]
}

Input: "Play some quiet music in the bedroom for 30 minutes"
{
  "intents": [
    {"description": "Play some quiet music in the bedroom for 30 minutes", "device_type": "audio_system", "modifiers": {"degree": "quiet", "location": "in the bedroom", "duration": "for 30 minutes"}}
  ]
}

Input: "I'm tired and need to relax"
{
  "intents": [
    {"description": "I'm tired", "device_type": "", "modifiers": {}},
    {"description": "need to relax", "device_type": "", "modifiers": {}}
  ]
}

Input: "Turn on very bright lights, no music please"
{
  "intents": [
    {"description": "Turn on very bright lights", "device_type": "lighting", "modifiers": {"degree": "very bright"}},
    {"description": "no music please", "device_type": "audio_system", "modifiers": {"negation": "no music"}}
  ]
}

Output ONLY valid JSON, no markdown code blocks, no explanations, no extra comma.

Output format:
{
  "intents": [
    {"description": "...", "device_type": "...", "modifiers": {"key": "value"}}
  ]
}`
